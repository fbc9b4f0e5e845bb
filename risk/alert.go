package risk

import "time"

// Metrics is one student's risk snapshot for an observation window.
// The rules read EquityDrop7d, WinRate, TotalTrades and Exposure; the
// remaining fields are carried for display.
type Metrics struct {
	StudentID          string  `json:"studentId" yaml:"student_id"`
	StudentName        string  `json:"studentName" yaml:"student_name"`
	EquityDrop7d       float64 `json:"equityDrop7d" yaml:"equity_drop_7d"`
	WinRate            float64 `json:"winRate" yaml:"win_rate"`
	TotalTrades        int     `json:"totalTrades" yaml:"total_trades"`
	Exposure           float64 `json:"exposure" yaml:"exposure"`
	Balance            float64 `json:"balance" yaml:"balance"`
	Leverage           float64 `json:"leverage" yaml:"leverage"`
	LargestDrawdown    float64 `json:"largestDrawdown" yaml:"largest_drawdown"`
	MaxSingleTradeLoss float64 `json:"maxSingleTradeLoss" yaml:"max_single_trade_loss"`
	TradesThisWeek     int     `json:"tradesThisWeek" yaml:"trades_this_week"`
	IsHighFrequency    bool    `json:"isHighFrequency" yaml:"is_high_frequency"`
}

// AlertType names the rule that raised an alert.
type AlertType string

const (
	EquityDrop   AlertType = "equityDrop"
	LowWinRate   AlertType = "lowWinRate"
	HighExposure AlertType = "highExposure"
)

// Severity is red for urgent alerts and amber for warnings.
type Severity string

const (
	Red   Severity = "red"
	Amber Severity = "amber"
	// SeverityAll is only meaningful to FilterBySeverity.
	SeverityAll Severity = "all"
)

// Alert is a single threshold breach. Alerts are rebuilt on every
// evaluation and carry no identity between calls.
type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	Severity    Severity  `json:"severity"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName"`
	Message     string    `json:"message"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
	Timestamp   time.Time `json:"timestamp"`
}

// AlertCounts tallies alerts by severity.
type AlertCounts struct {
	Total int `json:"total"`
	Red   int `json:"red"`
	Amber int `json:"amber"`
}

// FilterBySeverity returns the alerts of severity sev, or all of them for
// SeverityAll.
func FilterBySeverity(alerts []Alert, sev Severity) []Alert {
	if sev == SeverityAll {
		return alerts
	}
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Severity == sev {
			out = append(out, a)
		}
	}
	return out
}

// Counts tallies alerts by severity, with the overall total.
func Counts(alerts []Alert) AlertCounts {
	c := AlertCounts{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Severity {
		case Red:
			c.Red++
		case Amber:
			c.Amber++
		}
	}
	return c
}
