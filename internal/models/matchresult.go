package models

import (
	"github.com/shopspring/decimal"
)

// MatchResult links one credit-side transaction with the register entry it
// joined against, if any.
type MatchResult struct {
	Transaction         Transaction    `json:"transaction"`
	Register            *RegisterEntry `json:"register,omitempty"`
	IsPresentInRegister bool           `json:"is_present_in_register"`
}

// CommissionCheck is the result of verifying one matched transaction's
// commission against the rate card.
type CommissionCheck struct {
	Match MatchResult `json:"match"`

	// BankFactCommission is the effective rate charged by the bank:
	// statement commission divided by the register amount.
	BankFactCommission decimal.Decimal `json:"bank_fact_commission"`
	// DictCommission is the contractual payout rate from the rate card,
	// nil when the (provider, currency) pair is not on the card.
	DictCommission      *decimal.Decimal `json:"dict_commissions,omitempty"`
	IsCorrectCommission bool             `json:"is_correct_commission"`
}
