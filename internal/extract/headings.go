// Package extract turns decoded statement inputs (CSV grids, PDF text) into
// raw entries and interprets their string fields into typed values.
package extract

import (
	"regexp"
	"strings"

	"github.com/bardeteleon/financial-analysis/internal/config"
)

// headingScanLimit bounds how deep into a file the heading row is searched.
const headingScanLimit = 10

// FindHeading locates the heading row of a grid. For each heading config in
// declared order it builds an alternation over the escaped column names and
// accepts the first row (within the scan window) whose joined text matches
// every configured name. Returns the row index in the grid and the index of
// the winning config; ties are broken by config declaration order.
func FindHeading(grid [][]string, configs []config.HeadingConfig) (row, cfg int, ok bool) {
	for cfgIdx, hc := range configs {
		var names []string
		names = append(names, hc.Date...)
		names = append(names, hc.Amount...)
		names = append(names, hc.Comment...)
		if len(names) == 0 {
			continue
		}
		escaped := make([]string, len(names))
		for i, n := range names {
			escaped[i] = regexp.QuoteMeta(n)
		}
		re := regexp.MustCompile("(" + strings.Join(escaped, "|") + ")")

		for rowIdx, gridRow := range grid {
			joined := strings.Join(gridRow, " ")
			if len(re.FindAllString(joined, -1)) == len(names) {
				return rowIdx, cfgIdx, true
			}
			if rowIdx > headingScanLimit {
				break
			}
		}
	}
	return 0, 0, false
}

// findColumn returns the index of the first heading cell containing name.
func findColumn(headingRow []string, name string) (int, bool) {
	re := regexp.MustCompile(regexp.QuoteMeta(name))
	for i, cell := range headingRow {
		if re.MatchString(cell) {
			return i, true
		}
	}
	return 0, false
}
