// Package validate implements best-effort field validation for parsed
// datasets. Validation is a data-quality report, not a gate: every rule
// runs for every record, all findings are collected, and the pipeline
// continues with the data as-is.
package validate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"stmtrecon/internal/models"
)

// Source identifies the dataset a validation error belongs to.
type Source string

const (
	SourceTransactions Source = "transactions"
	SourceRegister     Source = "register"
)

// DateTimeLayout is the only accepted timestamp format.
const DateTimeLayout = "2006-01-02 15:04:05"

// Error is a single data-quality finding. It is collected, never returned
// as control flow.
type Error struct {
	Source  Source `json:"source"`
	Row     int    `json:"row_index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e Error) String() string {
	return fmt.Sprintf("%s row %d: %s: %s", e.Source, e.Row, e.Field, e.Message)
}

// Transactions validates every canonical transaction and returns all
// findings in row order.
func Transactions(ts []models.Transaction) []Error {
	var errs []Error
	for i, t := range ts {
		errs = append(errs, TransactionErrors(i, t)...)
	}
	return errs
}

// Register validates every register entry and returns all findings in row
// order.
func Register(es []models.RegisterEntry) []Error {
	var errs []Error
	for i, e := range es {
		errs = append(errs, RegisterErrors(i, e)...)
	}
	return errs
}

// TransactionErrors checks one transaction. It never mutates its input and
// always returns a (possibly empty) slice.
func TransactionErrors(row int, t models.Transaction) []Error {
	c := checker{source: SourceTransactions, row: row}
	c.nonEmpty("account_name", t.AccountName)
	c.dateTime("datetime", t.DateTime)
	c.nonEmpty("transaction_id", t.TransactionID)
	c.currency("currency", t.Currency)
	c.number("debit", t.DebitRaw)
	c.number("credit", t.CreditRaw)
	c.number("commission", t.CommissionRaw)
	return c.errs
}

// RegisterErrors checks one register entry.
func RegisterErrors(row int, e models.RegisterEntry) []Error {
	c := checker{source: SourceRegister, row: row}
	c.nonEmpty("account_name", e.AccountName)
	c.dateTime("datetime", e.DateTime)
	c.nonEmpty("transaction_id", e.TransactionID)
	c.number("provider_id", e.ProviderID)
	c.operationType("operation_type", e.OperationType)
	c.currency("currency", e.Currency)
	c.number("amount", e.AmountRaw)
	c.number("commission", e.CommissionRaw)
	return c.errs
}

type checker struct {
	source Source
	row    int
	errs   []Error
}

func (c *checker) add(field, format string, args ...any) {
	c.errs = append(c.errs, Error{
		Source:  c.source,
		Row:     c.row,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *checker) nonEmpty(field, value string) {
	if value == "" {
		c.add(field, "must not be empty")
	}
}

func (c *checker) dateTime(field, value string) {
	if _, err := time.Parse(DateTimeLayout, value); err != nil {
		c.add(field, "invalid datetime %q, want YYYY-MM-DD HH:MM:SS", value)
	}
}

func (c *checker) currency(field, code string) {
	if _, err := currency.ParseISO(code); err != nil {
		c.add(field, "unknown currency code %q", code)
	}
}

func (c *checker) number(field, value string) {
	if _, err := decimal.NewFromString(value); err != nil {
		c.add(field, "invalid number %q", value)
	}
}

func (c *checker) operationType(field, value string) {
	if value != models.OperationIncome && value != models.OperationOutcome {
		c.add(field, "invalid operation type %q, want income or outcome", value)
	}
}
