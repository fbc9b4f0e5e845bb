package metrics

import "fmt"

// MovingAverage smooths a daily series with a simple moving average over
// period entries. The first point is the average of the first period
// days, so the result has len(series)-period+1 points, dated like the
// last day of each window. A series shorter than period yields none.
func MovingAverage(series []DayPL, period int) ([]DayPL, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(series) < period {
		return []DayPL{}, nil
	}

	out := make([]DayPL, 0, len(series)-period+1)
	sum := 0.0
	for i, d := range series {
		sum += d.PnL
		if i >= period {
			sum -= series[i-period].PnL
		}
		if i >= period-1 {
			out = append(out, DayPL{Date: d.Date, PnL: sum / float64(period)})
		}
	}
	return out, nil
}

// ExponentialAverage smooths a daily series with an EMA seeded by the
// simple average of the first period days. Like MovingAverage it starts
// at the period-th day.
func ExponentialAverage(series []DayPL, period int) ([]DayPL, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(series) < period {
		return []DayPL{}, nil
	}

	k := 2.0 / float64(period+1)
	sma := 0.0
	for _, d := range series[:period] {
		sma += d.PnL
	}
	ema := sma / float64(period)

	out := make([]DayPL, 0, len(series)-period+1)
	out = append(out, DayPL{Date: series[period-1].Date, PnL: ema})
	for _, d := range series[period:] {
		ema = (d.PnL-ema)*k + ema
		out = append(out, DayPL{Date: d.Date, PnL: ema})
	}
	return out, nil
}
