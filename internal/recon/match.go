// Package recon implements the reconciliation core: leg correction over
// the sorted transaction sequence, the register join, and commission
// verification against the rate card.
package recon

import (
	"sort"

	"stmtrecon/internal/models"
)

type group struct {
	client   string
	provider string
	currency string
}

func groupOf(t models.Transaction) group {
	return group{client: t.ClientName, provider: t.ProviderName, currency: t.Currency}
}

// SortTransactions orders transactions by (client, provider, currency,
// timestamp) ascending. Groups are contiguous afterwards, which the leg
// corrector relies on.
func SortTransactions(ts []models.Transaction) []models.Transaction {
	sorted := make([]models.Transaction, len(ts))
	copy(sorted, ts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ClientName != b.ClientName {
			return a.ClientName < b.ClientName
		}
		if a.ProviderName != b.ProviderName {
			return a.ProviderName < b.ProviderName
		}
		if a.Currency != b.Currency {
			return a.Currency < b.Currency
		}
		return a.DateTime < b.DateTime
	})
	return sorted
}

// CorrectLegs detects adjacent debit/credit legs of the same transfer in a
// sorted sequence and propagates the authoritative commission from the
// debit leg onto the credit leg. The input must already be sorted; the
// lookahead always reads the uncorrected commission of the next row.
//
// Legs pair when the current row's credit exactly equals the next row's
// debit within the same (client, provider, currency) group. No tolerance.
func CorrectLegs(ts []models.Transaction) []models.Transaction {
	corrected := make([]models.Transaction, len(ts))
	copy(corrected, ts)
	for i := 0; i < len(ts)-1; i++ {
		next := ts[i+1]
		if groupOf(ts[i]) != groupOf(next) {
			continue
		}
		if ts[i].Credit.Equal(next.Debit) {
			corrected[i].Commission = next.Commission
			corrected[i].CommissionRaw = next.CommissionRaw
		}
	}
	return corrected
}

// FilterCredits drops every transaction with a zero credit. Debit-only
// legs and non-transfer rows do not participate in register matching.
func FilterCredits(ts []models.Transaction) []models.Transaction {
	kept := make([]models.Transaction, 0, len(ts))
	for _, t := range ts {
		if t.IsCredit() {
			kept = append(kept, t)
		}
	}
	return kept
}

// registerKey is the five-part join key. Amounts are keyed by their
// normalized decimal representation so 100 and 100.00 compare equal.
type registerKey struct {
	account  string
	provider string
	currency string
	amount   string
	dateTime string
}

// MatchRegister left-joins credit-side transactions against the register.
// All five key fields must match exactly for a hit; the first register
// entry for a key wins. One MatchResult is emitted per transaction.
func MatchRegister(ts []models.Transaction, entries []models.RegisterEntry) []models.MatchResult {
	index := make(map[registerKey]*models.RegisterEntry, len(entries))
	for i := range entries {
		e := &entries[i]
		k := registerKey{
			account:  e.AccountName,
			provider: e.ProviderName,
			currency: e.Currency,
			amount:   e.Amount.String(),
			dateTime: e.DateTime,
		}
		if _, exists := index[k]; !exists {
			index[k] = e
		}
	}

	results := make([]models.MatchResult, 0, len(ts))
	for _, t := range ts {
		k := registerKey{
			account:  t.ClientName,
			provider: t.ProviderName,
			currency: t.Currency,
			amount:   t.Credit.String(),
			dateTime: t.DateTime,
		}
		entry := index[k]
		results = append(results, models.MatchResult{
			Transaction:         t,
			Register:            entry,
			IsPresentInRegister: entry != nil && entry.TransactionID != "",
		})
	}
	return results
}

// Reconcile runs the full matching stage: sort, correct legs, drop
// debit-only rows, join against the register.
func Reconcile(ts []models.Transaction, entries []models.RegisterEntry) []models.MatchResult {
	sorted := SortTransactions(ts)
	corrected := CorrectLegs(sorted)
	return MatchRegister(FilterCredits(corrected), entries)
}
