package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailySeries(pnls ...float64) []DayPL {
	out := make([]DayPL, len(pnls))
	for i, p := range pnls {
		out[i] = DayPL{Date: fmt.Sprintf("2023-01-%02d", i+1), PnL: p}
	}
	return out
}

func TestMovingAverage(t *testing.T) {
	t.Parallel()

	series := dailySeries(50, 350, 225, 980, -100)

	ma, err := MovingAverage(series, 3)
	require.NoError(t, err)
	require.Len(t, ma, 3)
	assert.Equal(t, "2023-01-03", ma[0].Date)
	assert.InDelta(t, 625.0/3, ma[0].PnL, 1e-9)
	assert.InDelta(t, 1555.0/3, ma[1].PnL, 1e-9)
	assert.InDelta(t, 1105.0/3, ma[2].PnL, 1e-9)
	assert.Equal(t, "2023-01-05", ma[2].Date)

	one, err := MovingAverage(series, 1)
	require.NoError(t, err)
	assert.Equal(t, series, one)

	short, err := MovingAverage(series, 6)
	require.NoError(t, err)
	assert.Empty(t, short)

	_, err = MovingAverage(series, 0)
	assert.Error(t, err)
}

func TestExponentialAverage(t *testing.T) {
	t.Parallel()

	series := dailySeries(10, 20, 30, 40)

	ema, err := ExponentialAverage(series, 2)
	require.NoError(t, err)
	require.Len(t, ema, 3)
	// Seed 15, then k=2/3: 15+(30-15)*2/3=25, 25+(40-25)*2/3=35.
	assert.InDelta(t, 15, ema[0].PnL, 1e-9)
	assert.InDelta(t, 25, ema[1].PnL, 1e-9)
	assert.InDelta(t, 35, ema[2].PnL, 1e-9)

	flat, err := ExponentialAverage(dailySeries(7, 7, 7, 7, 7), 3)
	require.NoError(t, err)
	for _, d := range flat {
		assert.InDelta(t, 7, d.PnL, 1e-9)
	}

	_, err = ExponentialAverage(series, -1)
	assert.Error(t, err)
}
