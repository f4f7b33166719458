// Package archive reads per-provider statement exports out of a zip
// archive and parses each into canonical transactions.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"stmtrecon/internal/models"
	"stmtrecon/internal/statement"
)

// Load opens the statements archive at path and parses every file in it.
// Entries are processed in name order so repeated runs produce identical
// output. Any unreadable entry is fatal: a partial reconciliation is
// worthless.
func Load(path string, opts statement.Options) ([]models.Transaction, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statements archive %s: %w", path, err)
	}
	defer r.Close()

	return parseFiles(&r.Reader, opts)
}

// Parse reads a statements archive already held in memory, e.g. one
// downloaded from blob storage.
func Parse(data []byte, opts statement.Options) ([]models.Transaction, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read statements archive: %w", err)
	}
	return parseFiles(r, opts)
}

func parseFiles(r *zip.Reader, opts statement.Options) ([]models.Transaction, error) {
	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var transactions []models.Transaction
	for _, f := range files {
		content, err := readFile(f)
		if err != nil {
			return nil, err
		}
		parsed, err := statement.Parse(content, opts)
		if err != nil {
			return nil, fmt.Errorf("statement %s: %w", f.Name, err)
		}
		slog.Info("parsed statement file", "file", f.Name, "transactions", len(parsed))
		transactions = append(transactions, parsed...)
	}
	return transactions, nil
}

func readFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
	}
	return string(data), nil
}
