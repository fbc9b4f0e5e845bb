package metrics

import (
	"sort"

	"github.com/rustyeddy/tradejournal/dates"
	"github.com/rustyeddy/tradejournal/journal"
)

// DefaultTopSymbols is the length of the top-symbols ranking.
const DefaultTopSymbols = 7

// DayPL is the summed P&L of the trades sharing one date string.
type DayPL struct {
	Date string  `json:"date"`
	PnL  float64 `json:"pnl"`
}

// SymbolCount is one row of the top-symbols ranking.
type SymbolCount struct {
	Label      string             `json:"label"`
	Value      int                `json:"value"`
	AssetClass journal.AssetClass `json:"assetClass"`
}

// SeriesPLByDay sums P&L per exact date string and returns the buckets in
// ascending date order. Date strings are not re-normalized, so
// "2024-01-01" and "2024-01-01T09:00:00Z" are separate buckets.
// Unparseable dates sort after every valid one.
func SeriesPLByDay(trades []journal.Trade) []DayPL {
	idx := make(map[string]int)
	out := make([]DayPL, 0)
	for _, t := range trades {
		i, ok := idx[t.Date]
		if !ok {
			i = len(out)
			idx[t.Date] = i
			out = append(out, DayPL{Date: t.Date})
		}
		out[i].PnL += t.PnL
	}

	type key struct {
		valid bool
		unix  int64
	}
	keys := make(map[string]key, len(out))
	for _, d := range out {
		ts, err := dates.Parse(d.Date)
		keys[d.Date] = key{valid: err == nil, unix: ts.UnixNano()}
	}

	sort.Slice(out, func(i, j int) bool {
		ki, kj := keys[out[i].Date], keys[out[j].Date]
		if ki.valid != kj.valid {
			return ki.valid
		}
		if ki.valid && ki.unix != kj.unix {
			return ki.unix < kj.unix
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// CumulativePL returns the running total of a day series.
func CumulativePL(series []DayPL) []DayPL {
	out := make([]DayPL, len(series))
	var total float64
	for i, d := range series {
		total += d.PnL
		out[i] = DayPL{Date: d.Date, PnL: total}
	}
	return out
}

// TopSymbolsByTrades ranks symbols by trade count and returns at most n.
// Equal counts keep first-seen order. A symbol's asset class is the one
// on its last occurrence in trades.
func TopSymbolsByTrades(trades []journal.Trade, n int) []SymbolCount {
	if n <= 0 {
		return []SymbolCount{}
	}

	idx := make(map[string]int)
	out := make([]SymbolCount, 0)
	for _, t := range trades {
		i, ok := idx[t.Symbol]
		if !ok {
			i = len(out)
			idx[t.Symbol] = i
			out = append(out, SymbolCount{Label: t.Symbol})
		}
		out[i].Value++
		out[i].AssetClass = t.AssetClass
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// SumPL is the arithmetic sum of P&L.
func SumPL(trades []journal.Trade) float64 {
	var sum float64
	for _, t := range trades {
		sum += t.PnL
	}
	return sum
}

// CountTrades returns the number of trades.
func CountTrades(trades []journal.Trade) int {
	return len(trades)
}

// WinRate is the percentage (0-100) of trades with strictly positive P&L.
func WinRate(trades []journal.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}

// AvgPnL is SumPL divided by the trade count, or 0 for no trades.
func AvgPnL(trades []journal.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	return SumPL(trades) / float64(len(trades))
}
