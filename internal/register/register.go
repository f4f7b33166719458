// Package register loads the internal accounting register that statement
// transactions are reconciled against.
package register

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"stmtrecon/internal/models"
)

// accountSuffixLen is the length of the technical suffix appended to
// account names in the register; stripping it aligns register names with
// the client names used on the statement side.
const accountSuffixLen = 4

// Load reads the register CSV from disk.
func Load(path string) ([]models.RegisterEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read register %s: %w", path, err)
	}
	entries, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", path, err)
	}
	return entries, nil
}

// Parse parses register CSV content. The first row is the column header.
// Numeric fields are parsed best-effort; raw text is kept for validation.
func Parse(content string) ([]models.RegisterEntry, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read register CSV: %w", err)
	}
	if len(records) < 2 {
		return []models.RegisterEntry{}, nil
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	entries := make([]models.RegisterEntry, 0, len(records)-1)
	for _, record := range records[1:] {
		rowMap := make(map[string]string, len(headers))
		for j, header := range headers {
			if j < len(record) {
				rowMap[header] = strings.TrimSpace(record[j])
			}
		}
		entries = append(entries, mapEntry(rowMap))
	}
	return entries, nil
}

func mapEntry(row map[string]string) models.RegisterEntry {
	e := models.RegisterEntry{
		AccountName:   stripAccountSuffix(row["account_name"]),
		DateTime:      row["datetime"],
		TransactionID: row["transaction_id"],
		ProviderID:    row["provider_id"],
		ProviderName:  row["provider_name"],
		OperationType: row["operation_type"],
		Currency:      row["currency"],
		Commentary:    row["commentary"],
		AmountRaw:     row["amount"],
		CommissionRaw: row["commission"],
	}
	e.Amount = parseDecimal(e.AmountRaw)
	e.Commission = parseDecimal(e.CommissionRaw)
	return e
}

func stripAccountSuffix(name string) string {
	if len(name) > accountSuffixLen {
		return name[:len(name)-accountSuffixLen]
	}
	return name
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
