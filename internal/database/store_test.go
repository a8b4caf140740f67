package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bardeteleon/financial-analysis/internal/database/repository"
	"github.com/bardeteleon/financial-analysis/internal/entry"
	"github.com/bardeteleon/financial-analysis/internal/reconcile"
)

func TestPersistRunRoundTrip(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations, err := filepath.Abs("migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, migrations))
	t.Log("migrations applied")

	date, err := time.Parse("2006-01-02", "2023-03-01")
	require.NoError(t, err)

	a := entry.New()
	a.Date = &date
	a.Amount = decimal.NewFromFloat(-50)
	a.AccountID = "DE01"
	a.Type = entry.TypeInternal
	a.CardKind = entry.CardGiro
	a.Counterpart = 1
	a.Tags = []entry.Tag{entry.NewTag("Transfer")}
	a.Raw = &entry.Raw{Comment: "Umbuchung auf DE02", Kind: entry.RawKindTransaction}

	b := entry.New()
	b.Date = &date
	b.Amount = decimal.NewFromFloat(50)
	b.AccountID = "DE02"
	b.Type = entry.TypeInternal
	b.CardKind = entry.CardGiro
	b.Counterpart = 0

	intervals := []reconcile.Interval{
		{
			AccountID:     "DE01",
			Status:        reconcile.StatusUncheckedNoBalances,
			CalculatedSum: decimal.NewFromFloat(-50),
			Transactions:  1,
		},
	}

	runID, err := PersistRun(ctx, db, "input", []*entry.Entry{a, b}, intervals)
	require.NoError(t, err)
	require.NotEmpty(t, runID)
	t.Log("run persisted")

	run, err := repository.NewRunRepo(db).Get(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	require.Equal(t, 2, run.EntryCount)
	require.Equal(t, 2, run.InternalCount)
	require.Equal(t, 0, run.ExternalCount)

	records, err := repository.NewEntryRepo(db).ListByRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 0, records[0].Position)
	require.Equal(t, "-50.00", records[0].Amount)
	require.Equal(t, "internal", records[0].Type)
	require.Equal(t, "Transfer", records[0].Tags)
	require.NotNil(t, records[0].CounterpartPosition)
	require.Equal(t, 1, *records[0].CounterpartPosition)
	require.NotNil(t, records[0].RawComment)
	require.Equal(t, "Umbuchung auf DE02", *records[0].RawComment)
	require.Nil(t, records[1].RawKind)

	ivs, err := repository.NewIntervalRepo(db).ListByRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, ivs, 1)
	require.Equal(t, "unchecked (no balances)", ivs[0].Status)
	require.Equal(t, "-50.00", ivs[0].CalculatedSum)
	require.Equal(t, 1, ivs[0].Transactions)
}

func TestRunRepoListNewestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations, err := filepath.Abs("migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, migrations))

	repo := repository.NewRunRepo(db)
	older := repository.Run{ID: "run-1", CreatedAt: Now().Add(-time.Hour), InputDir: "input"}
	newer := repository.Run{ID: "run-2", CreatedAt: Now(), InputDir: "input"}
	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))

	runs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-2", runs[0].ID)
}
