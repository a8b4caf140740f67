// Package writer serializes interpreted entries into the output CSV.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/bardeteleon/financial-analysis/internal/entry"
)

var header = []string{"date", "amount", "tags", "card", "type", "account_id", "raw_kind", "raw_comment"}

// WriteCSV writes all entries to path, one row per entry in input order.
// Undated entries get an empty date cell; virtual entries get empty raw
// cells.
func WriteCSV(path string, entries []*entry.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("writer: %w", err)
	}
	for _, e := range entries {
		if err := w.Write(row(e)); err != nil {
			_ = f.Close()
			return fmt.Errorf("writer: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("writer: flush %s: %w", path, err)
	}
	return f.Close()
}

func row(e *entry.Entry) []string {
	date := ""
	if e.Date != nil {
		date = e.Date.Format("2006-01-02")
	}
	group := entry.TagGroup{}
	for _, t := range e.Tags {
		group.Add(t)
	}
	rawKind, rawComment := "", ""
	if e.Raw != nil {
		rawKind = e.Raw.Kind.String()
		rawComment = e.Raw.Comment
	}
	return []string{
		date,
		e.Amount.StringFixed(2),
		group.Key(),
		e.CardKind.String(),
		e.Type.String(),
		e.AccountID,
		rawKind,
		rawComment,
	}
}
