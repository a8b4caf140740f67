package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/entry"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// RawFromGrid extracts raw entries from one CSV grid. Structural failures
// (no heading row, missing column, no account bound to the file) are logged
// as errors and yield zero entries; other files keep processing. Output
// order matches source order.
func RawFromGrid(grid [][]string, cfg config.Config, inputBase, path string, log zerolog.Logger) []entry.Raw {
	if len(grid) < 2 {
		log.Error().Str("file", path).Msg("csv not considered since too short")
		return nil
	}

	headingRow, cfgIdx, ok := FindHeading(grid, cfg.Headings)
	if !ok {
		log.Error().Str("file", path).Msg("no heading row found")
		return nil
	}
	log.Debug().Str("file", path).Int("row", headingRow).Int("config", cfgIdx).Msg("heading row detected")

	hc := cfg.Headings[cfgIdx]
	dateCols, ok := columnIndices(grid[headingRow], hc.Date, path, log)
	if !ok {
		return nil
	}
	amountCols, ok := columnIndices(grid[headingRow], hc.Amount, path, log)
	if !ok {
		return nil
	}
	commentCols, ok := columnIndices(grid[headingRow], hc.Comment, path, log)
	if !ok {
		return nil
	}

	accountIdx, ok := AccountForPath(cfg.Accounts, inputBase, path)
	if !ok {
		log.Error().Str("file", path).Msg("no account found for input csv")
		return nil
	}

	balanceRe := regexp.MustCompile(regexp.QuoteMeta(cfg.BalanceMarker))

	var raws []entry.Raw
	for _, row := range grid[headingRow+1:] {
		raw := entry.Raw{
			Date:         concatColumns(row, dateCols),
			Amount:       concatColumns(row, amountCols),
			Comment:      CleanupWhitespace(concatColumns(row, commentCols)),
			AccountIndex: accountIdx,
			Kind:         entry.RawKindUnknown,
		}
		if raw.Amount == "" {
			continue
		}
		if loc := balanceRe.FindStringIndex(raw.Comment); loc != nil && loc[0] == 0 {
			raw.Kind = entry.RawKindBalance
		} else {
			raw.Kind = entry.RawKindTransaction
		}
		raws = append(raws, raw)
	}
	return raws
}

func columnIndices(headingRow []string, names []string, path string, log zerolog.Logger) ([]int, bool) {
	indices := make([]int, 0, len(names))
	for _, name := range names {
		idx, ok := findColumn(headingRow, name)
		if !ok {
			log.Error().Str("file", path).Str("column", name).Msg("unable to find column")
			return nil, false
		}
		indices = append(indices, idx)
	}
	return indices, true
}

// AccountForPath associates a file with the account whose input directory
// fragment appears in the file's path.
func AccountForPath(accounts []config.Account, inputBase, path string) (int, bool) {
	for idx, account := range accounts {
		if account.InputDirectory == "" {
			continue
		}
		if strings.Contains(path, filepath.Join(inputBase, account.InputDirectory)) {
			return idx, true
		}
	}
	return 0, false
}

// concatColumns joins the selected cells with single spaces. Rows too short
// for the selection yield an empty string.
func concatColumns(row []string, cols []int) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		if c >= len(row) {
			return ""
		}
		parts = append(parts, row[c])
	}
	return strings.Join(parts, " ")
}

// CleanupWhitespace collapses runs of whitespace into single spaces.
func CleanupWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
