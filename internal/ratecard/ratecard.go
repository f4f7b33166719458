// Package ratecard loads the contractual fee rate card the commission
// verifier checks charged commissions against.
package ratecard

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Entry is the contractual pricing for one (bank, currency) pair.
type Entry struct {
	Bank          string
	Currency      string
	PricePerMonth decimal.Decimal
	MinDeposit    decimal.Decimal
	PayoutPrice   decimal.Decimal
	PayinPrice    decimal.Decimal
}

// rawEntry mirrors the YAML document. Amounts stay strings in YAML so the
// decimal values survive loading without a float round-trip.
type rawEntry struct {
	Bank          string `yaml:"bank"`
	Currency      string `yaml:"currency"`
	PricePerMonth string `yaml:"price_per_month"`
	MinDeposit    string `yaml:"min_deposit"`
	PayoutPrice   string `yaml:"payout_price"`
	PayinPrice    string `yaml:"payin_price"`
}

type rawCard struct {
	Rates []rawEntry `yaml:"rates"`
}

type key struct {
	bank     string
	currency string
}

// Card is the rate card lookup table, keyed by (bank, currency).
type Card struct {
	entries map[key]Entry
}

// Load reads a rate card YAML file.
func Load(path string) (*Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate card %s: %w", path, err)
	}
	card, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rate card %s: %w", path, err)
	}
	return card, nil
}

// Parse parses rate card YAML content.
func Parse(data []byte) (*Card, error) {
	var raw rawCard
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rate card YAML: %w", err)
	}

	card := &Card{entries: make(map[key]Entry, len(raw.Rates))}
	for i, r := range raw.Rates {
		e, err := r.toEntry()
		if err != nil {
			return nil, fmt.Errorf("rate card entry %d (%s/%s): %w", i, r.Bank, r.Currency, err)
		}
		card.entries[key{e.Bank, e.Currency}] = e
	}
	return card, nil
}

func (r rawEntry) toEntry() (Entry, error) {
	e := Entry{Bank: r.Bank, Currency: r.Currency}
	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"price_per_month", r.PricePerMonth, &e.PricePerMonth},
		{"min_deposit", r.MinDeposit, &e.MinDeposit},
		{"payout_price", r.PayoutPrice, &e.PayoutPrice},
		{"payin_price", r.PayinPrice, &e.PayinPrice},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Entry{}, fmt.Errorf("invalid %s %q", f.name, f.raw)
		}
		*f.dst = d
	}
	return e, nil
}

// Lookup returns the entry for a (bank, currency) pair.
func (c *Card) Lookup(bank, currency string) (Entry, bool) {
	e, ok := c.entries[key{bank, currency}]
	return e, ok
}

// Len returns the number of entries on the card.
func (c *Card) Len() int {
	return len(c.entries)
}
