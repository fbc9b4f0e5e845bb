// Package metrics turns a list of journal trades into the filtered,
// time-bucketed and ranked views behind the statistics pages.
//
// Every function here is pure: inputs are never modified, outputs are
// freshly allocated, and empty input yields zero values.
package metrics

import (
	"time"

	"github.com/rustyeddy/tradejournal/dates"
	"github.com/rustyeddy/tradejournal/journal"
)

// Category selects trades by asset class. CategoryTotal selects all.
type Category string

const (
	CategoryTotal  Category = "total"
	CategoryStock  Category = "stock"
	CategoryCrypto Category = "crypto"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryTotal || c == CategoryStock || c == CategoryCrypto
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LastDays returns the range covering the n calendar days ending on now.
func LastDays(now time.Time, n int) Range {
	if n < 1 {
		n = 1
	}
	return Range{Start: dates.AddDays(now, -(n - 1)), End: now}
}

// Matches reports whether a trade with asset class ac belongs to c.
// Unknown categories match nothing.
func (c Category) Matches(ac journal.AssetClass) bool {
	switch c {
	case CategoryTotal:
		return true
	case CategoryStock, CategoryCrypto:
		return string(ac) == string(c)
	default:
		return false
	}
}

// FilterByRangeAndCategory keeps the trades dated within r whose asset
// class matches c, preserving input order.
func FilterByRangeAndCategory(trades []journal.Trade, r Range, c Category) []journal.Trade {
	out := make([]journal.Trade, 0, len(trades))
	for _, t := range trades {
		if dates.InRange(t.Date, r.Start, r.End) && c.Matches(t.AssetClass) {
			out = append(out, t)
		}
	}
	return out
}
