package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.RegisterPath != "register.csv" {
		t.Errorf("Expected default register.csv, got %q", cfg.RegisterPath)
	}
	if cfg.StatementsPath != "statements.zip" {
		t.Errorf("Expected default statements.zip, got %q", cfg.StatementsPath)
	}
	if cfg.HeaderSkip != 0 {
		t.Errorf("Expected header skip 0, got %d", cfg.HeaderSkip)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("RECON_REGISTER", "/data/reg.csv")
	t.Setenv("RECON_HEADER_SKIP", "7")
	t.Setenv("RECON_HISTORY_DB", "/data/history.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cfg.RegisterPath != "/data/reg.csv" {
		t.Errorf("Expected /data/reg.csv, got %q", cfg.RegisterPath)
	}
	if cfg.HeaderSkip != 7 {
		t.Errorf("Expected header skip 7, got %d", cfg.HeaderSkip)
	}
	if cfg.HistoryPath != "/data/history.db" {
		t.Errorf("Expected history path set, got %q", cfg.HistoryPath)
	}
}

func TestLoad_InvalidHeaderSkip(t *testing.T) {
	t.Setenv("RECON_HEADER_SKIP", "lots")
	if _, err := Load(); err == nil {
		t.Fatal("Expected error for non-numeric RECON_HEADER_SKIP")
	}
}
