package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/bardeteleon/financial-analysis/internal/database/repository"
	"github.com/bardeteleon/financial-analysis/internal/entry"
	"github.com/bardeteleon/financial-analysis/internal/reconcile"
)

// PersistRun stores a full analysis pass: the run header, every entry and
// every reconciliation interval, all in one transaction. Returns the new
// run id.
func PersistRun(ctx context.Context, db *sql.DB, inputDir string, entries []*entry.Entry, intervals []reconcile.Interval) (string, error) {
	runID := uuid.NewString()
	run := repository.Run{
		ID:        runID,
		CreatedAt: Now(),
		InputDir:  inputDir,
	}
	for _, e := range entries {
		run.EntryCount++
		switch e.Type {
		case entry.TypeInternal:
			run.InternalCount++
		case entry.TypeExternal:
			run.ExternalCount++
		}
	}

	entryRepo := repository.NewEntryRepo(db)
	intervalRepo := repository.NewIntervalRepo(db)

	err := WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs(id, created_at, input_dir, entry_count, internal_count, external_count)
		VALUES(?, ?, ?, ?, ?, ?);
		`, run.ID, run.CreatedAt, run.InputDir, run.EntryCount, run.InternalCount, run.ExternalCount); err != nil {
			return err
		}
		for i, e := range entries {
			if err := entryRepo.Insert(ctx, tx, entryRecord(runID, i, e)); err != nil {
				return err
			}
		}
		for _, iv := range intervals {
			if err := intervalRepo.Insert(ctx, tx, intervalRecord(runID, iv)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

func entryRecord(runID string, position int, e *entry.Entry) repository.EntryRecord {
	rec := repository.EntryRecord{
		ID:        uuid.NewString(),
		RunID:     runID,
		Position:  position,
		Amount:    e.Amount.StringFixed(2),
		AccountID: e.AccountID,
		Type:      e.Type.String(),
		Card:      e.CardKind.String(),
	}
	if e.Date != nil {
		d := e.Date.Format("2006-01-02")
		rec.Date = &d
	}
	group := entry.TagGroup{}
	for _, t := range e.Tags {
		group.Add(t)
	}
	rec.Tags = group.Key()
	if e.Counterpart != entry.NoCounterpart {
		cp := e.Counterpart
		rec.CounterpartPosition = &cp
	}
	if e.Raw != nil {
		kind := e.Raw.Kind.String()
		comment := e.Raw.Comment
		rec.RawKind = &kind
		rec.RawComment = &comment
	}
	return rec
}

func intervalRecord(runID string, iv reconcile.Interval) repository.IntervalRecord {
	rec := repository.IntervalRecord{
		ID:            uuid.NewString(),
		RunID:         runID,
		AccountID:     iv.AccountID,
		Status:        iv.Status.String(),
		StartBalance:  iv.StartBalance.StringFixed(2),
		EndBalance:    iv.EndBalance.StringFixed(2),
		CalculatedSum: iv.CalculatedSum.StringFixed(2),
		Transactions:  iv.Transactions,
	}
	if iv.From != nil {
		d := iv.From.Format("2006-01-02")
		rec.DateFrom = &d
	}
	if iv.To != nil {
		d := iv.To.Format("2006-01-02")
		rec.DateTo = &d
	}
	return rec
}
