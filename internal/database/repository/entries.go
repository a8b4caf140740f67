package repository

import (
	"context"
	"database/sql"
)

// EntryRepo handles persisted entries.
type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

func (r *EntryRepo) Insert(ctx context.Context, tx *sql.Tx, e EntryRecord) error {
	_, err := tx.ExecContext(ctx, `
	INSERT INTO entries(
	 id, run_id, position, date, amount, account_id, type, card, tags,
	 counterpart_position, raw_kind, raw_comment)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		e.ID, e.RunID, e.Position, e.Date, e.Amount, e.AccountID, e.Type, e.Card, e.Tags,
		e.CounterpartPosition, e.RawKind, e.RawComment)
	return err
}

// ListByRun returns a run's entries in arena order.
func (r *EntryRepo) ListByRun(ctx context.Context, runID string) ([]EntryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, run_id, position, date, amount, account_id, type, card, tags,
	       counterpart_position, raw_kind, raw_comment
	FROM entries WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EntryRecord
	for rows.Next() {
		var e EntryRecord
		if err := rows.Scan(&e.ID, &e.RunID, &e.Position, &e.Date, &e.Amount, &e.AccountID,
			&e.Type, &e.Card, &e.Tags, &e.CounterpartPosition, &e.RawKind, &e.RawComment); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
