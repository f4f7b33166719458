package recon

import (
	"testing"

	"github.com/shopspring/decimal"

	"stmtrecon/internal/models"
)

func tx(client, provider, currency, dateTime string, debit, credit, commission string) models.Transaction {
	return models.Transaction{
		AccountName:   "acc",
		DateTime:      dateTime,
		TransactionID: "tx-" + dateTime,
		ProviderName:  provider,
		ClientName:    client,
		Currency:      currency,
		Debit:         decimal.RequireFromString(debit),
		Credit:        decimal.RequireFromString(credit),
		Commission:    decimal.RequireFromString(commission),
		CommissionRaw: commission,
	}
}

func TestSortTransactions_GroupsContiguous(t *testing.T) {
	ts := []models.Transaction{
		tx("b", "P", "USD", "2023-01-01 10:00:00", "0", "10", "1"),
		tx("a", "P", "USD", "2023-01-01 12:00:00", "0", "20", "1"),
		tx("a", "P", "USD", "2023-01-01 09:00:00", "0", "30", "1"),
	}

	sorted := SortTransactions(ts)
	if sorted[0].ClientName != "a" || sorted[0].DateTime != "2023-01-01 09:00:00" {
		t.Errorf("Unexpected first row: %+v", sorted[0])
	}
	if sorted[2].ClientName != "b" {
		t.Errorf("Expected client b last, got %q", sorted[2].ClientName)
	}

	// Input untouched.
	if ts[0].ClientName != "b" {
		t.Error("SortTransactions mutated its input")
	}
}

func TestCorrectLegs_PropagatesDebitLegCommission(t *testing.T) {
	ts := []models.Transaction{
		tx("a", "P", "USD", "2023-01-01 10:00:00", "0", "100", "5"),
		tx("a", "P", "USD", "2023-01-01 10:00:05", "100", "0", "3"),
		tx("a", "P", "USD", "2023-01-01 11:00:00", "0", "70", "2"),
	}

	corrected := CorrectLegs(ts)
	if !corrected[0].Commission.Equal(decimal.RequireFromString("3")) {
		t.Errorf("Expected corrected commission 3, got %s", corrected[0].Commission)
	}
	// Unrelated row keeps its own commission.
	if !corrected[2].Commission.Equal(decimal.RequireFromString("2")) {
		t.Errorf("Expected commission 2 untouched, got %s", corrected[2].Commission)
	}
}

func TestCorrectLegs_NoPairAcrossGroups(t *testing.T) {
	ts := []models.Transaction{
		tx("a", "P", "USD", "2023-01-01 10:00:00", "0", "100", "5"),
		tx("b", "P", "USD", "2023-01-01 10:00:05", "100", "0", "3"),
	}

	corrected := CorrectLegs(ts)
	if !corrected[0].Commission.Equal(decimal.RequireFromString("5")) {
		t.Errorf("Expected commission 5 kept, got %s", corrected[0].Commission)
	}
}

func TestCorrectLegs_ExactEqualityRequired(t *testing.T) {
	ts := []models.Transaction{
		tx("a", "P", "USD", "2023-01-01 10:00:00", "0", "100", "5"),
		tx("a", "P", "USD", "2023-01-01 10:00:05", "100.01", "0", "3"),
	}

	corrected := CorrectLegs(ts)
	if !corrected[0].Commission.Equal(decimal.RequireFromString("5")) {
		t.Errorf("Expected commission 5 kept, got %s", corrected[0].Commission)
	}
}

func TestCorrectLegs_EqualScaleInsensitive(t *testing.T) {
	ts := []models.Transaction{
		tx("a", "P", "USD", "2023-01-01 10:00:00", "0", "100.00", "5"),
		tx("a", "P", "USD", "2023-01-01 10:00:05", "100", "0", "3"),
	}

	corrected := CorrectLegs(ts)
	if !corrected[0].Commission.Equal(decimal.RequireFromString("3")) {
		t.Errorf("Expected corrected commission 3, got %s", corrected[0].Commission)
	}
}

func TestCorrectLegs_LookaheadReadsUncorrectedCommission(t *testing.T) {
	// Row 1 pairs with row 2, row 2 pairs with row 3. Row 1 must take row
	// 2's original commission, not row 2's corrected one.
	ts := []models.Transaction{
		tx("a", "P", "USD", "2023-01-01 10:00:00", "0", "100", "5"),
		tx("a", "P", "USD", "2023-01-01 10:00:05", "100", "50", "3"),
		tx("a", "P", "USD", "2023-01-01 10:00:10", "50", "0", "9"),
	}

	corrected := CorrectLegs(ts)
	if !corrected[0].Commission.Equal(decimal.RequireFromString("3")) {
		t.Errorf("Expected commission 3 from uncorrected lookahead, got %s", corrected[0].Commission)
	}
	if !corrected[1].Commission.Equal(decimal.RequireFromString("9")) {
		t.Errorf("Expected commission 9, got %s", corrected[1].Commission)
	}
}

func TestFilterCredits_DropsZeroCreditRows(t *testing.T) {
	ts := []models.Transaction{
		tx("a", "P", "USD", "2023-01-01 10:00:00", "0", "100", "5"),
		tx("a", "P", "USD", "2023-01-01 10:00:05", "100", "0", "3"),
	}

	kept := FilterCredits(ts)
	if len(kept) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(kept))
	}
	if kept[0].Credit.IsZero() {
		t.Error("A zero-credit row survived filtering")
	}
}

func registerEntry(account, provider, currency, dateTime, amount string) models.RegisterEntry {
	return models.RegisterEntry{
		AccountName:   account,
		DateTime:      dateTime,
		TransactionID: "reg-" + dateTime,
		ProviderID:    "77",
		ProviderName:  provider,
		OperationType: models.OperationIncome,
		Currency:      currency,
		Amount:        decimal.RequireFromString(amount),
	}
}

func TestMatchRegister_FiveKeyJoin(t *testing.T) {
	transaction := tx("A", "P", "USD", "2023-01-01 10:00:00", "0", "50", "1")
	entries := []models.RegisterEntry{
		registerEntry("A", "P", "USD", "2023-01-01 10:00:00", "50"),
	}

	results := MatchRegister([]models.Transaction{transaction}, entries)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if !results[0].IsPresentInRegister {
		t.Error("Expected a register hit")
	}
	if results[0].Register == nil || results[0].Register.TransactionID != "reg-2023-01-01 10:00:00" {
		t.Errorf("Unexpected joined entry: %+v", results[0].Register)
	}
}

func TestMatchRegister_AnySingleKeyChangeBreaksMatch(t *testing.T) {
	base := registerEntry("A", "P", "USD", "2023-01-01 10:00:00", "50")
	perturbed := []models.RegisterEntry{
		registerEntry("B", "P", "USD", "2023-01-01 10:00:00", "50"),
		registerEntry("A", "Q", "USD", "2023-01-01 10:00:00", "50"),
		registerEntry("A", "P", "EUR", "2023-01-01 10:00:00", "50"),
		registerEntry("A", "P", "USD", "2023-01-01 10:00:01", "50"),
		registerEntry("A", "P", "USD", "2023-01-01 10:00:00", "50.01"),
	}
	transaction := tx("A", "P", "USD", "2023-01-01 10:00:00", "0", "50", "1")

	for i, e := range perturbed {
		results := MatchRegister([]models.Transaction{transaction}, []models.RegisterEntry{e})
		if results[0].IsPresentInRegister {
			t.Errorf("Perturbation %d unexpectedly matched", i)
		}
	}

	// Sanity: the unperturbed entry matches.
	results := MatchRegister([]models.Transaction{transaction}, []models.RegisterEntry{base})
	if !results[0].IsPresentInRegister {
		t.Error("Expected base entry to match")
	}
}

func TestMatchRegister_AmountScaleInsensitive(t *testing.T) {
	transaction := tx("A", "P", "USD", "2023-01-01 10:00:00", "0", "50.00", "1")
	entries := []models.RegisterEntry{
		registerEntry("A", "P", "USD", "2023-01-01 10:00:00", "50"),
	}

	results := MatchRegister([]models.Transaction{transaction}, entries)
	if !results[0].IsPresentInRegister {
		t.Error("Expected 50.00 to match register amount 50")
	}
}

func TestReconcile_EndToEnd(t *testing.T) {
	ts := []models.Transaction{
		// Transfer pair: credit leg gets commission 3 and matches.
		tx("A", "P", "USD", "2023-01-01 10:00:00", "0", "100", "5"),
		tx("A", "P", "USD", "2023-01-01 10:00:05", "100", "0", "3"),
		// Lone credit with no register counterpart.
		tx("B", "P", "USD", "2023-01-02 10:00:00", "0", "40", "1"),
	}
	entries := []models.RegisterEntry{
		registerEntry("A", "P", "USD", "2023-01-01 10:00:00", "100"),
	}

	results := Reconcile(ts, entries)
	if len(results) != 2 {
		t.Fatalf("Expected 2 credit-side results, got %d", len(results))
	}

	if !results[0].IsPresentInRegister {
		t.Error("Expected transfer credit leg to match register")
	}
	if !results[0].Transaction.Commission.Equal(decimal.RequireFromString("3")) {
		t.Errorf("Expected corrected commission 3, got %s", results[0].Transaction.Commission)
	}
	if results[1].IsPresentInRegister {
		t.Error("Expected lone credit to miss the register")
	}
}
