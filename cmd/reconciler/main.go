// Command reconciler runs one statement reconciliation over local files:
// it parses the statement archive and the register export, matches legs,
// verifies commissions against the rate card, and writes the three result
// tables plus a console summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"stmtrecon/internal/archive"
	"stmtrecon/internal/config"
	"stmtrecon/internal/history"
	"stmtrecon/internal/ratecard"
	"stmtrecon/internal/recon"
	"stmtrecon/internal/register"
	"stmtrecon/internal/report"
	"stmtrecon/internal/statement"
)

func main() {
	if err := run(); err != nil {
		slog.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	registerPath := flag.String("register", cfg.RegisterPath, "register CSV file")
	statementsPath := flag.String("statements", cfg.StatementsPath, "statement archive (zip)")
	rateCardPath := flag.String("ratecard", cfg.RateCardPath, "rate card YAML file")
	outputDir := flag.String("out", cfg.OutputDir, "output directory for result tables")
	headerSkip := flag.Int("header-skip", cfg.HeaderSkip, "statement metadata lines before the header (0 = provider default)")
	flag.Parse()

	started := time.Now()

	card, err := ratecard.Load(*rateCardPath)
	if err != nil {
		return err
	}
	entries, err := register.Load(*registerPath)
	if err != nil {
		return err
	}
	transactions, err := archive.Load(*statementsPath, statement.Options{HeaderSkip: *headerSkip})
	if err != nil {
		return err
	}
	slog.Info("inputs loaded",
		"transactions", len(transactions),
		"register_entries", len(entries),
		"rate_card_entries", card.Len(),
	)

	res := recon.Run(transactions, entries, card)

	if err := writeTables(*outputDir, res); err != nil {
		return err
	}

	fmt.Println(report.RenderSummary(res))

	if cfg.HistoryPath != "" {
		if err := recordHistory(cfg.HistoryPath, started, res); err != nil {
			// The run itself succeeded; a history failure should not flip
			// the exit status.
			slog.Error("failed to record run history", "error", err)
		}
	}
	return nil
}

func writeTables(dir string, res recon.Result) error {
	tables := []struct {
		name   string
		encode func() ([]byte, error)
	}{
		{"transactions.csv", func() ([]byte, error) { return report.EncodeTransactions(res.Transactions) }},
		{"matches.csv", func() ([]byte, error) { return report.EncodeMatches(res.Matches) }},
		{"commissions.csv", func() ([]byte, error) { return report.EncodeCommissions(res.Checks) }},
	}
	for _, table := range tables {
		data, err := table.encode()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", table.name, err)
		}
		path := filepath.Join(dir, table.name)
		if err := report.WriteFile(path, data); err != nil {
			return err
		}
		slog.Info("wrote result table", "path", path)
	}
	return nil
}

func recordHistory(path string, started time.Time, res recon.Result) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.RecordRun(context.Background(), history.Run{
		ID:                   uuid.New().String(),
		StartedAt:            started,
		FinishedAt:           time.Now(),
		Transactions:         len(res.Transactions),
		CreditTransactions:   len(res.Matches),
		Matched:              res.Matched(),
		CommissionMismatches: res.CommissionMismatches(),
		ValidationErrors:     len(res.TransactionErrors) + len(res.RegisterErrors),
	})
}
