package metrics

import (
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// Summary collects the scalar figures shown on the statistics cards.
type Summary struct {
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	TotalPL      float64 `json:"totalPnl"`
	WinRate      float64 `json:"winRate"`
	AvgPnL       float64 `json:"avgPnl"`
	GrossProfit  float64 `json:"grossProfit"`
	GrossLoss    float64 `json:"grossLoss"`
	ProfitFactor float64 `json:"profitFactor"`
	BestTrade    float64 `json:"bestTrade"`
	WorstTrade   float64 `json:"worstTrade"`
	MaxDrawdown  float64 `json:"maxDrawdown"`
}

// Summarize computes every Summary figure in one pass plus the drawdown
// of the daily series. GrossLoss is reported as a positive amount and
// ProfitFactor is 0 when there are no losing trades.
func Summarize(trades []journal.Trade) Summary {
	s := Summary{
		Trades:  CountTrades(trades),
		TotalPL: SumPL(trades),
		WinRate: WinRate(trades),
		AvgPnL:  AvgPnL(trades),
	}
	if len(trades) == 0 {
		return s
	}

	s.BestTrade = math.Inf(-1)
	s.WorstTrade = math.Inf(1)
	for _, t := range trades {
		switch {
		case t.PnL > 0:
			s.Wins++
			s.GrossProfit += t.PnL
		case t.PnL < 0:
			s.Losses++
			s.GrossLoss -= t.PnL
		}
		s.BestTrade = math.Max(s.BestTrade, t.PnL)
		s.WorstTrade = math.Min(s.WorstTrade, t.PnL)
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	s.MaxDrawdown = MaxDrawdown(SeriesPLByDay(trades))
	return s
}

// MaxDrawdown is the largest peak-to-trough fall of the cumulative P&L
// of series, starting from zero. It is never negative.
func MaxDrawdown(series []DayPL) float64 {
	var peak, cum, dd float64
	for _, d := range series {
		cum += d.PnL
		if cum > peak {
			peak = cum
		}
		if peak-cum > dd {
			dd = peak - cum
		}
	}
	return dd
}
