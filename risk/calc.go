package risk

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
)

// HighFrequencyTrades is the weekly trade count above which a student is
// flagged as high frequency.
const HighFrequencyTrades = 50

// Student identifies whose trades a snapshot is built from.
type Student struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Balance float64 `json:"balance" yaml:"balance"`
}

// MetricsFromTrades builds a risk snapshot from one student's journal as
// of now. Balance is the current account balance; the equity curve of
// the last 7 days is rebuilt backwards from it using the closed trades.
// Exposure and leverage use the entry notional of open trades.
// LargestDrawdown and MaxSingleTradeLoss are currency amounts.
func MetricsFromTrades(s Student, trades []journal.Trade, now time.Time) Metrics {
	closed := journal.FilterCompletedTrades(trades)
	open := journal.FilterPendingTrades(trades)
	week := metrics.LastDays(now, 7)

	m := Metrics{
		StudentID:       s.ID,
		StudentName:     s.Name,
		Balance:         s.Balance,
		TotalTrades:     metrics.CountTrades(closed),
		WinRate:         metrics.WinRate(closed),
		LargestDrawdown: metrics.MaxDrawdown(metrics.SeriesPLByDay(closed)),
		TradesThisWeek:  len(metrics.FilterByRangeAndCategory(trades, week, metrics.CategoryTotal)),
	}
	m.IsHighFrequency = m.TradesThisWeek > HighFrequencyTrades

	for _, t := range closed {
		if -t.PnL > m.MaxSingleTradeLoss {
			m.MaxSingleTradeLoss = -t.PnL
		}
	}

	var notional float64
	for _, t := range open {
		if t.EntryPrice != nil {
			notional += t.Qty * *t.EntryPrice
		}
	}
	m.Exposure = pct(notional, s.Balance)
	if s.Balance > 0 {
		m.Leverage = notional / s.Balance
	}

	recent := metrics.SeriesPLByDay(metrics.FilterByRangeAndCategory(closed, week, metrics.CategoryTotal))
	var weekPL float64
	for _, d := range recent {
		weekPL += d.PnL
	}
	m.EquityDrop7d = equityDropPct(s.Balance-weekPL, recent)
	return m
}

// equityDropPct is the largest fall from a running peak of the equity
// curve that starts at start and moves by each day's P&L, as a percent of
// that peak.
func equityDropPct(start float64, series []metrics.DayPL) float64 {
	eq, peak, worst := start, start, 0.0
	for _, d := range series {
		eq += d.PnL
		if eq > peak {
			peak = eq
		}
		if dd := pct(peak-eq, peak); dd > worst {
			worst = dd
		}
	}
	return worst
}

func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
