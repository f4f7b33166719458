package recon

import (
	"log/slog"

	"stmtrecon/internal/models"
	"stmtrecon/internal/ratecard"
	"stmtrecon/internal/validate"
)

// Result holds everything one reconciliation run produces.
type Result struct {
	// Transactions is the canonical table in insertion order, before any
	// correction.
	Transactions []models.Transaction

	TransactionErrors []validate.Error
	RegisterErrors    []validate.Error

	Matches []models.MatchResult
	Checks  []models.CommissionCheck
}

// Matched counts transactions found in the register.
func (r Result) Matched() int {
	n := 0
	for _, m := range r.Matches {
		if m.IsPresentInRegister {
			n++
		}
	}
	return n
}

// CommissionMismatches counts verified transactions whose effective rate
// disagrees with the rate card.
func (r Result) CommissionMismatches() int {
	n := 0
	for _, c := range r.Checks {
		if !c.IsCorrectCommission {
			n++
		}
	}
	return n
}

// Run executes the batch pipeline over already-ingested inputs: validate
// both datasets, correct and match transaction legs against the register,
// verify commissions. Validation findings never stop the run.
func Run(ts []models.Transaction, entries []models.RegisterEntry, card *ratecard.Card) Result {
	res := Result{
		Transactions:      ts,
		TransactionErrors: validate.Transactions(ts),
		RegisterErrors:    validate.Register(entries),
	}
	slog.Info("validated datasets",
		"transactions", len(ts),
		"transaction_errors", len(res.TransactionErrors),
		"register_entries", len(entries),
		"register_errors", len(res.RegisterErrors),
	)

	res.Matches = Reconcile(ts, entries)
	res.Checks = VerifyCommissions(res.Matches, card)
	slog.Info("reconciliation complete",
		"credit_transactions", len(res.Matches),
		"matched", res.Matched(),
		"commission_mismatches", res.CommissionMismatches(),
	)
	return res
}
