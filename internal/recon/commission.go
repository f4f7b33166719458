package recon

import (
	"stmtrecon/internal/models"
	"stmtrecon/internal/ratecard"
)

// VerifyCommissions computes the effective fee rate of every matched
// transaction and compares it to the rate card's payout price for the
// (provider, currency) pair. Comparison is exact decimal equality; an
// unknown pair yields a nil expected rate and a false result. Rows without
// a register-side amount cannot be verified and stay false.
func VerifyCommissions(matches []models.MatchResult, card *ratecard.Card) []models.CommissionCheck {
	checks := make([]models.CommissionCheck, 0, len(matches))
	for _, m := range matches {
		check := models.CommissionCheck{Match: m}
		if m.Register != nil && !m.Register.Amount.IsZero() {
			check.BankFactCommission = m.Transaction.Commission.Div(m.Register.Amount)
			if entry, ok := card.Lookup(m.Transaction.ProviderName, m.Transaction.Currency); ok {
				expected := entry.PayoutPrice
				check.DictCommission = &expected
				check.IsCorrectCommission = check.BankFactCommission.Equal(expected)
			}
		}
		checks = append(checks, check)
	}
	return checks
}
