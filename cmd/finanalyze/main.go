package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bardeteleon/financial-analysis/internal/augment"
	"github.com/bardeteleon/financial-analysis/internal/classify"
	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/currency"
	"github.com/bardeteleon/financial-analysis/internal/database"
	"github.com/bardeteleon/financial-analysis/internal/dedupe"
	"github.com/bardeteleon/financial-analysis/internal/entry"
	"github.com/bardeteleon/financial-analysis/internal/extract"
	"github.com/bardeteleon/financial-analysis/internal/logging"
	"github.com/bardeteleon/financial-analysis/internal/reader"
	"github.com/bardeteleon/financial-analysis/internal/reconcile"
	"github.com/bardeteleon/financial-analysis/internal/tagging"
	"github.com/bardeteleon/financial-analysis/internal/writer"
)

func main() {
	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx := logging.WithContext(context.Background(), log)
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	raws, err := extractInputs(cfg, log)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(raws)).Msg("raw entries extracted")

	augment.RewriteAlternativeIBANs(raws, cfg.Accounts, log)

	conv := currency.NewConverter(cfg.Currency, log)
	entries, err := extract.NewInterpreter(cfg, conv, log).Run(raws)
	if err != nil {
		return err
	}

	rules, err := tagging.RulesFromConfig(cfg)
	if err != nil {
		return err
	}
	tagging.Apply(entries, rules, log)

	entries = augment.MirrorVirtualAccountTransactions(entries, cfg.Accounts, log)
	entries = entry.SortedPerAccount(entries)
	entries = augment.AddManualBalances(entries, cfg.Accounts, log)

	classify.NewClassifier(cfg, log).Run(entries)
	dedupe.Find(entries, log)

	intervals, err := reconcile.NewValidator(log).Validate(datedOnly(entries, log))
	if err != nil {
		return err
	}

	if err := writer.WriteCSV(cfg.OutputCSV, entries); err != nil {
		return err
	}
	log.Info().Str("path", cfg.OutputCSV).Int("entries", len(entries)).Msg("wrote interpreted entries")

	fmt.Print(reconcile.Report(intervals, cfg))

	if cfg.Database.Path != "" {
		if err := persist(ctx, cfg, entries, intervals, log); err != nil {
			return err
		}
	}
	return nil
}

// extractInputs walks the input directory and extracts raw entries from
// every supported file. Unreadable or unrecognized files are logged and
// skipped so a single broken export never blocks the run.
func extractInputs(cfg config.Config, log zerolog.Logger) ([]entry.Raw, error) {
	var raws []entry.Raw
	err := filepath.WalkDir(cfg.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			grid, err := reader.CSVGrid(path)
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("skipping unreadable csv")
				return nil
			}
			raws = append(raws, extract.RawFromGrid(grid, cfg, cfg.InputDir, path, log)...)
		case ".pdf":
			text, err := reader.PDFText(path)
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("skipping unreadable pdf")
				return nil
			}
			accountIdx, ok := extract.AccountForPath(cfg.Accounts, cfg.InputDir, path)
			if !ok {
				log.Error().Str("file", path).Msg("no account found for input pdf")
				return nil
			}
			raws = append(raws, extract.RawFromStatementText(text, accountIdx, log)...)
		default:
			log.Debug().Str("file", path).Msg("ignoring unsupported file")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", cfg.InputDir, err)
	}
	return raws, nil
}

// datedOnly drops entries whose date could not be interpreted; they cannot
// be placed in any reconciliation interval.
func datedOnly(entries []*entry.Entry, log zerolog.Logger) []*entry.Entry {
	dated := make([]*entry.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date == nil {
			continue
		}
		dated = append(dated, e)
	}
	if dropped := len(entries) - len(dated); dropped > 0 {
		log.Warn().Int("count", dropped).Msg("entries without dates excluded from reconciliation")
	}
	return dated
}

func persist(ctx context.Context, cfg config.Config, entries []*entry.Entry, intervals []reconcile.Interval, log zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, "internal/database/migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	runID, err := database.PersistRun(ctx, db, cfg.InputDir, entries, intervals)
	if err != nil {
		return fmt.Errorf("persist run: %w", err)
	}
	log.Info().Str("run", runID).Str("db", cfg.Database.Path).Msg("run persisted")
	return nil
}
