package models

import (
	"github.com/shopspring/decimal"
)

// Operation types recorded in the register.
const (
	OperationIncome  = "income"
	OperationOutcome = "outcome"
)

// RegisterEntry is one row of the internal accounting register. Entries are
// immutable reference data loaded once per run.
type RegisterEntry struct {
	AccountName   string          `json:"account_name"`
	DateTime      string          `json:"datetime"`
	TransactionID string          `json:"transaction_id"`
	ProviderID    string          `json:"provider_id"`
	ProviderName  string          `json:"provider_name"`
	OperationType string          `json:"operation_type"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Commission    decimal.Decimal `json:"commission"`
	Commentary    string          `json:"commentary"`

	AmountRaw     string `json:"-"`
	CommissionRaw string `json:"-"`
}
