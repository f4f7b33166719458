// Package report renders a reconciliation run's outputs: the three CSV
// tables and the human-readable summary.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"stmtrecon/internal/models"
)

var transactionColumns = []string{
	"account_name", "datetime", "transaction_id", "provider_name",
	"client_name", "currency", "credit", "debit", "commission", "description",
}

func transactionRow(t models.Transaction) []string {
	return []string{
		t.AccountName, t.DateTime, t.TransactionID, t.ProviderName,
		t.ClientName, t.Currency, t.Credit.String(), t.Debit.String(),
		t.Commission.String(), t.Description,
	}
}

// EncodeTransactions renders the canonical transaction table.
func EncodeTransactions(ts []models.Transaction) ([]byte, error) {
	return encode(transactionColumns, len(ts), func(i int) []string {
		return transactionRow(ts[i])
	})
}

// EncodeMatches renders the register-completeness table: every credit-side
// transaction plus the joined register fields, empty when absent.
func EncodeMatches(ms []models.MatchResult) ([]byte, error) {
	header := append(append([]string{}, transactionColumns...),
		"register_transaction_id", "register_provider_id", "register_operation_type",
		"register_amount", "register_commission", "register_commentary",
		"is_present_in_register",
	)
	return encode(header, len(ms), func(i int) []string {
		m := ms[i]
		row := transactionRow(m.Transaction)
		if m.Register != nil {
			row = append(row,
				m.Register.TransactionID, m.Register.ProviderID, m.Register.OperationType,
				m.Register.Amount.String(), m.Register.Commission.String(), m.Register.Commentary,
			)
		} else {
			row = append(row, "", "", "", "", "", "")
		}
		return append(row, fmt.Sprintf("%t", m.IsPresentInRegister))
	})
}

// EncodeCommissions renders the commission-verification table.
func EncodeCommissions(cs []models.CommissionCheck) ([]byte, error) {
	header := append(append([]string{}, transactionColumns...),
		"bank_fact_commission", "dict_commissions", "is_correct_commission",
	)
	return encode(header, len(cs), func(i int) []string {
		c := cs[i]
		row := transactionRow(c.Match.Transaction)
		dict := ""
		if c.DictCommission != nil {
			dict = c.DictCommission.String()
		}
		return append(row,
			c.BankFactCommission.String(), dict,
			fmt.Sprintf("%t", c.IsCorrectCommission),
		)
	})
}

func encode(header []string, n int, row func(int) []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes an encoded table to path, overwriting any existing
// file.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
