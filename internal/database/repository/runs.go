package repository

import (
	"context"
	"database/sql"
)

// RunRepo handles runs.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) Insert(ctx context.Context, run Run) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO runs(id, created_at, input_dir, entry_count, internal_count, external_count)
	VALUES(?, ?, ?, ?, ?, ?);
	`, run.ID, run.CreatedAt, run.InputDir, run.EntryCount, run.InternalCount, run.ExternalCount)
	return err
}

func (r *RunRepo) Get(ctx context.Context, id string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, created_at, input_dir, entry_count, internal_count, external_count
	FROM runs WHERE id = ?`, id)
	var run Run
	err := row.Scan(&run.ID, &run.CreatedAt, &run.InputDir, &run.EntryCount, &run.InternalCount, &run.ExternalCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns runs newest first.
func (r *RunRepo) List(ctx context.Context) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, created_at, input_dir, entry_count, internal_count, external_count
	FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.InputDir, &run.EntryCount, &run.InternalCount, &run.ExternalCount); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
