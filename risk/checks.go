package risk

import (
	"fmt"
	"time"
)

// Evaluator applies the alert rules. Clock and IDs are injected so a run
// can be reproduced; nil values fall back to time.Now and ULIDs.
type Evaluator struct {
	Thresholds Thresholds
	Clock      func() time.Time
	IDs        IDGenerator
}

// NewEvaluator returns an Evaluator using the wall clock and ULID ids.
func NewEvaluator(th Thresholds) *Evaluator {
	return &Evaluator{Thresholds: th, Clock: time.Now, IDs: ULIDs}
}

// GenerateAlerts evaluates metrics with the default thresholds.
func GenerateAlerts(metrics []Metrics) []Alert {
	return NewEvaluator(DefaultThresholds()).Evaluate(metrics)
}

// Evaluate checks every student against every rule. One student can
// raise several alerts. All alerts of a call share one timestamp.
//
//	equity drop   EquityDrop7d > EquityDrop                               red
//	low win rate  WinRate < LowWinRate and TotalTrades >= MinTradesForWinRate  amber
//	high exposure Exposure > HighExposure                                 amber
func (e *Evaluator) Evaluate(metrics []Metrics) []Alert {
	clock := e.Clock
	if clock == nil {
		clock = time.Now
	}
	ids := e.IDs
	if ids == nil {
		ids = ULIDs
	}
	now := clock()
	th := e.Thresholds

	alerts := make([]Alert, 0)
	add := func(m Metrics, typ AlertType, sev Severity, value, threshold float64, msg string) {
		alerts = append(alerts, Alert{
			ID:          ids.AlertID(m, typ, now),
			Type:        typ,
			Severity:    sev,
			StudentID:   m.StudentID,
			StudentName: m.StudentName,
			Message:     msg,
			Value:       value,
			Threshold:   threshold,
			Timestamp:   now,
		})
	}

	for _, m := range metrics {
		if m.EquityDrop7d > th.EquityDrop {
			add(m, EquityDrop, Red, m.EquityDrop7d, th.EquityDrop,
				fmt.Sprintf("Equity dropped %.1f%% over the last 7 days across %d trades (limit %.1f%%)",
					m.EquityDrop7d, m.TotalTrades, th.EquityDrop))
		}
		if m.WinRate < th.LowWinRate && m.TotalTrades >= th.MinTradesForWinRate {
			add(m, LowWinRate, Amber, m.WinRate, th.LowWinRate,
				fmt.Sprintf("Win rate %.1f%% over %d trades is below %.1f%%",
					m.WinRate, m.TotalTrades, th.LowWinRate))
		}
		if m.Exposure > th.HighExposure {
			add(m, HighExposure, Amber, m.Exposure, th.HighExposure,
				fmt.Sprintf("Exposure at %.1f%% of balance exceeds %.1f%%",
					m.Exposure, th.HighExposure))
		}
	}
	return alerts
}
