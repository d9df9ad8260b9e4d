package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceIndex maps lower-cased product descriptions to prices. When two
// products share a description the first one wins.
type PriceIndex map[string]decimal.Decimal

func NewPriceIndex(products []Product) PriceIndex {
	index := make(PriceIndex, len(products))
	for _, p := range products {
		key := normalizeDescription(p.Description)
		if _, seen := index[key]; seen {
			continue
		}
		index[key] = p.Price.Decimal
	}
	return index
}

// Lookup returns the price for description, matched case-insensitively.
func (idx PriceIndex) Lookup(description string) (decimal.Decimal, bool) {
	price, ok := idx[normalizeDescription(description)]
	return price, ok
}

// ResolvePrice returns the price of the first product whose description
// equals description ignoring case. No match returns false and callers keep
// the price they had.
func ResolvePrice(description string, products []Product) (decimal.Decimal, bool) {
	return NewPriceIndex(products).Lookup(description)
}

func normalizeDescription(s string) string {
	return strings.ToLower(s)
}
