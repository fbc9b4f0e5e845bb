package metrics

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/journal"
)

// SmoothKind selects the moving average drawn over the daily series.
type SmoothKind string

const (
	SmoothSMA SmoothKind = "sma"
	SmoothEMA SmoothKind = "ema"
)

// Valid reports whether k is a known smoothing kind. Empty means SMA.
func (k SmoothKind) Valid() bool {
	return k == "" || k == SmoothSMA || k == SmoothEMA
}

// Query describes one statistics view.
type Query struct {
	Range    Range    `json:"range"`
	Category Category `json:"category"`
	// Top is the top-symbols length; zero means DefaultTopSymbols.
	Top int `json:"top"`
	// IncludePending keeps open positions in the figures.
	IncludePending bool `json:"includePending"`
	// Smooth is the moving-average window over the daily series; zero
	// leaves Report.Smoothed empty.
	Smooth     int        `json:"smooth,omitempty"`
	SmoothKind SmoothKind `json:"smoothKind,omitempty"`
}

// Report is everything the statistics page draws.
type Report struct {
	Query      Query         `json:"query"`
	Summary    Summary       `json:"summary"`
	Series     []DayPL       `json:"series"`
	Cumulative []DayPL       `json:"cumulative"`
	TopSymbols []SymbolCount `json:"topSymbols"`
	Smoothed   []DayPL       `json:"smoothed,omitempty"`
}

// BuildReport runs the full pipeline: drop open trades unless asked,
// filter by range and category, then aggregate. It fails only on a bad
// smoothing option.
func BuildReport(trades []journal.Trade, q Query) (Report, error) {
	if q.Top == 0 {
		q.Top = DefaultTopSymbols
	}
	if q.Smooth < 0 {
		return Report{}, fmt.Errorf("smooth window must not be negative, got %d", q.Smooth)
	}
	if !q.SmoothKind.Valid() {
		return Report{}, fmt.Errorf("unknown smoothing %q", q.SmoothKind)
	}
	if !q.IncludePending {
		trades = journal.FilterCompletedTrades(trades)
	}
	trades = FilterByRangeAndCategory(trades, q.Range, q.Category)

	series := SeriesPLByDay(trades)
	rep := Report{
		Query:      q,
		Summary:    Summarize(trades),
		Series:     series,
		Cumulative: CumulativePL(series),
		TopSymbols: TopSymbolsByTrades(trades, q.Top),
	}
	if q.Smooth == 0 {
		return rep, nil
	}

	var err error
	if q.SmoothKind == SmoothEMA {
		rep.Smoothed, err = ExponentialAverage(series, q.Smooth)
	} else {
		rep.Smoothed, err = MovingAverage(series, q.Smooth)
	}
	if err != nil {
		return Report{}, err
	}
	return rep, nil
}
