// Package risk raises threshold alerts from per-student risk metrics for
// the admin view.
package risk

// Thresholds holds the limits the rules compare against. Percentages are
// on a 0-100 scale.
type Thresholds struct {
	// Red when the 7-day equity drop is above this.
	EquityDrop float64 `json:"equity_drop" yaml:"equity_drop" envconfig:"EQUITY_DROP"`
	// Amber when the win rate is below this...
	LowWinRate float64 `json:"low_win_rate" yaml:"low_win_rate" envconfig:"LOW_WIN_RATE"`
	// ...over at least this many trades.
	MinTradesForWinRate int `json:"min_trades_for_win_rate" yaml:"min_trades_for_win_rate" envconfig:"MIN_TRADES_FOR_WIN_RATE"`
	// Amber when exposure is above this percent of balance.
	HighExposure float64 `json:"high_exposure" yaml:"high_exposure" envconfig:"HIGH_EXPOSURE"`
}

// Default limits used by DefaultThresholds.
const (
	EquityDropThreshold   = 20
	LowWinRateThreshold   = 35
	MinTradesForWinRate   = 50
	HighExposureThreshold = 60
)

// DefaultThresholds returns the limits the admin view ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EquityDrop:          EquityDropThreshold,
		LowWinRate:          LowWinRateThreshold,
		MinTradesForWinRate: MinTradesForWinRate,
		HighExposure:        HighExposureThreshold,
	}
}
