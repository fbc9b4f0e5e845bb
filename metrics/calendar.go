package metrics

import (
	"sort"
	"time"

	"github.com/rustyeddy/tradejournal/dates"
	"github.com/rustyeddy/tradejournal/journal"
)

// CalendarDay is one cell of the monthly P&L calendar.
type CalendarDay struct {
	Date   string  `json:"date"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
	Wins   int     `json:"wins"`
}

// CalendarMonth buckets the trades of one month by UTC calendar day.
// Unlike SeriesPLByDay, date-times are normalized to their day. Only days
// with trades are returned, in ascending order.
func CalendarMonth(trades []journal.Trade, year int, month time.Month) []CalendarDay {
	byDay := make(map[string]*CalendarDay)
	for _, t := range trades {
		ts, err := dates.Parse(t.Date)
		if err != nil {
			continue
		}
		ts = ts.UTC()
		if ts.Year() != year || ts.Month() != month {
			continue
		}

		key := dates.ToISODate(ts)
		d, ok := byDay[key]
		if !ok {
			d = &CalendarDay{Date: key}
			byDay[key] = d
		}
		d.PnL += t.PnL
		d.Trades++
		if t.PnL > 0 {
			d.Wins++
		}
	}

	out := make([]CalendarDay, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
