package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"stmtrecon/internal/statement"
)

const semicolonStatement = `Provider statement export
Period: 2023-01-01 - 2023-01-31
Generated: 2023-02-01
Account: 400001
---
account_name;datetime;transaction_id;provider_name;client_name;currency;debit;credit;commission;description
acc1;2023-01-02 10:00:00;tx1;PayBank;client_a;USD;0;100.00;1,25;invoice
`

const commaStatement = `Provider statement export,
Period: 2023-01-01 - 2023-01-31,
Generated: 2023-02-01,
Account: 400002,
---,
account_name,datetime,transaction_id,provider_name,client_name,currency,amount,Debi/Credit,commission,payment info
acc2,2023-01-03 09:00:00,tx2,FastPay,client_b,EUR,50.00,C,0.5,transfer
`

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	// Write in a fixed order; Load sorts by name anyway.
	for _, name := range []string{"b_provider.csv", "a_provider.csv"} {
		content, ok := files[name]
		if !ok {
			continue
		}
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write zip entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParse_MixedSchemasAcrossFiles(t *testing.T) {
	data := buildArchive(t, map[string]string{
		"a_provider.csv": semicolonStatement,
		"b_provider.csv": commaStatement,
	})

	transactions, err := Parse(data, statement.Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(transactions))
	}

	// Name order: a_provider.csv first.
	if transactions[0].TransactionID != "tx1" {
		t.Errorf("Expected tx1 first, got %s", transactions[0].TransactionID)
	}
	if transactions[1].TransactionID != "tx2" {
		t.Errorf("Expected tx2 second, got %s", transactions[1].TransactionID)
	}
}

func TestLoad_FromDisk(t *testing.T) {
	data := buildArchive(t, map[string]string{"a_provider.csv": semicolonStatement})
	path := filepath.Join(t.TempDir(), "statements.zip")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write archive: %v", err)
	}

	transactions, err := Load(path, statement.Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(transactions))
	}
}

func TestLoad_MissingArchiveIsFatal(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.zip"), statement.Options{}); err == nil {
		t.Fatal("Expected error for missing archive")
	}
}

func TestParse_CorruptArchiveIsFatal(t *testing.T) {
	if _, err := Parse([]byte("not a zip"), statement.Options{}); err == nil {
		t.Fatal("Expected error for corrupt archive")
	}
}
