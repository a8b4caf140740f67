// Package reader turns input files into the plain shapes the extractors
// work on: CSV files become string grids, PDF statements become text.
// Byte-level quirks (delimiters, encodings) stay inside this package.
package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// CSVGrid reads a CSV export into a 2-D string grid. Bank exports disagree
// on delimiters, so the delimiter is sniffed from the first line; rows may
// have varying widths.
func CSVGrid(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return gridFromBytes(data)
}

func gridFromBytes(data []byte) ([][]string, error) {
	if !utf8.Valid(data) {
		data = latin1ToUTF8(data)
	}

	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var grid [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		grid = append(grid, rec)
	}
	return grid, nil
}

// sniffDelimiter picks the delimiter occurring more often in the first line.
// German bank exports mostly use semicolons.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) >= strings.Count(string(line), ",") {
		return ';'
	}
	return ','
}

func latin1ToUTF8(data []byte) []byte {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return []byte(b.String())
}
