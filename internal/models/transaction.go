package models

import (
	"github.com/shopspring/decimal"
)

// Transaction is the canonical record built from one statement row,
// regardless of which export schema the source file used.
type Transaction struct {
	AccountName   string          `json:"account_name"`
	DateTime      string          `json:"datetime"`
	TransactionID string          `json:"transaction_id"` // unique within its source file only
	ProviderName  string          `json:"provider_name"`
	ClientName    string          `json:"client_name"`
	Currency      string          `json:"currency"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Commission    decimal.Decimal `json:"commission"`
	Description   string          `json:"description"`

	// Source text of the numeric fields. Parsing is best-effort, so the
	// raw values are kept for validation reporting.
	DebitRaw      string `json:"-"`
	CreditRaw     string `json:"-"`
	CommissionRaw string `json:"-"`
}

// IsCredit reports whether the transaction is an incoming (credit-side) leg.
func (t *Transaction) IsCredit() bool {
	return !t.Credit.IsZero()
}
