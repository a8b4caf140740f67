package repository

import (
	"context"
	"database/sql"
)

// IntervalRepo handles persisted reconciliation intervals.
type IntervalRepo struct {
	db *sql.DB
}

func NewIntervalRepo(db *sql.DB) *IntervalRepo { return &IntervalRepo{db: db} }

func (r *IntervalRepo) Insert(ctx context.Context, tx *sql.Tx, iv IntervalRecord) error {
	_, err := tx.ExecContext(ctx, `
	INSERT INTO validation_intervals(
	 id, run_id, account_id, status, date_from, date_to,
	 start_balance, end_balance, calculated_sum, transactions)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		iv.ID, iv.RunID, iv.AccountID, iv.Status, iv.DateFrom, iv.DateTo,
		iv.StartBalance, iv.EndBalance, iv.CalculatedSum, iv.Transactions)
	return err
}

// ListByRun returns a run's intervals in insertion order.
func (r *IntervalRepo) ListByRun(ctx context.Context, runID string) ([]IntervalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, run_id, account_id, status, date_from, date_to,
	       start_balance, end_balance, calculated_sum, transactions
	FROM validation_intervals WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IntervalRecord
	for rows.Next() {
		var iv IntervalRecord
		if err := rows.Scan(&iv.ID, &iv.RunID, &iv.AccountID, &iv.Status, &iv.DateFrom, &iv.DateTo,
			&iv.StartBalance, &iv.EndBalance, &iv.CalculatedSum, &iv.Transactions); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}
