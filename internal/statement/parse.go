package statement

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stmtrecon/internal/models"
)

// Options controls statement parsing.
type Options struct {
	// HeaderSkip is the number of metadata lines before the column header.
	// Zero means DefaultHeaderSkip.
	HeaderSkip int
}

func (o Options) headerSkip() int {
	if o.HeaderSkip > 0 {
		return o.HeaderSkip
	}
	return DefaultHeaderSkip
}

// Parse parses one statement export into canonical transactions. The
// delimiter is auto-detected and the column header is taken from the line
// after the metadata block. A file too short to contain the header yields
// zero transactions, not an error.
//
// Numeric fields are parsed best-effort: unparsable values become zero and
// the raw text is kept on the transaction for the validator to report.
func Parse(content string, opts Options) ([]models.Transaction, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = DetectDelimiter(content)
	reader.FieldsPerRecord = -1 // metadata lines have arbitrary shapes
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}

	skip := opts.headerSkip()
	if len(records) <= skip {
		return []models.Transaction{}, nil
	}

	headers := parseHeaders(records[skip])
	transactions := make([]models.Transaction, 0, len(records)-skip-1)

	for _, record := range records[skip+1:] {
		if isBlank(record) {
			continue
		}
		rowMap := make(map[string]string, len(headers))
		for j, header := range headers {
			if j < len(record) {
				rowMap[header] = strings.TrimSpace(record[j])
			}
		}
		transactions = append(transactions, mapTransaction(rowMap))
	}

	return transactions, nil
}

func parseHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// mapTransaction builds a canonical transaction from a header-keyed row.
// Two source schemas coexist across files: separate debit/credit columns,
// and a signed amount column qualified by a "Debi/Credit" flag. Field
// presence decides which rules apply, per row.
func mapTransaction(row map[string]string) models.Transaction {
	t := models.Transaction{
		AccountName:   row["account_name"],
		DateTime:      row["datetime"],
		TransactionID: row["transaction_id"],
		ProviderName:  row["provider_name"],
		ClientName:    row["client_name"],
		Currency:      row["currency"],
	}

	if flag, ok := row["Debi/Credit"]; ok {
		switch flag {
		case "D":
			t.DebitRaw = row["amount"]
			t.CreditRaw = "0"
		case "C":
			t.CreditRaw = row["amount"]
			t.DebitRaw = "0"
		}
	}
	if v, ok := row["debit"]; ok {
		t.DebitRaw = v
	}
	if v, ok := row["credit"]; ok {
		t.CreditRaw = v
	}

	if v, ok := row["payment info"]; ok {
		t.Description = v
	} else if v, ok := row["description"]; ok {
		t.Description = v
	}

	// Commissions use a comma decimal separator in the source exports.
	t.CommissionRaw = strings.ReplaceAll(row["commission"], ",", ".")

	t.Debit = parseDecimal(t.DebitRaw)
	t.Credit = parseDecimal(t.CreditRaw)
	t.Commission = parseDecimal(t.CommissionRaw)
	return t
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
