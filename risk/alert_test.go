package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleAlerts() []Alert {
	return []Alert{
		{ID: "1", Type: EquityDrop, Severity: Red},
		{ID: "2", Type: LowWinRate, Severity: Amber},
		{ID: "3", Type: HighExposure, Severity: Amber},
		{ID: "4", Type: EquityDrop, Severity: Red},
		{ID: "5", Type: HighExposure, Severity: Amber},
	}
}

func TestFilterBySeverity(t *testing.T) {
	t.Parallel()

	alerts := sampleAlerts()
	assert.Equal(t, alerts, FilterBySeverity(alerts, SeverityAll))

	red := FilterBySeverity(alerts, Red)
	assert.Len(t, red, 2)
	for _, a := range red {
		assert.Equal(t, Red, a.Severity)
	}

	amber := FilterBySeverity(alerts, Amber)
	assert.Equal(t, []string{"2", "3", "5"}, []string{amber[0].ID, amber[1].ID, amber[2].ID})

	assert.Empty(t, FilterBySeverity(alerts, Severity("green")))
	assert.Empty(t, FilterBySeverity(nil, Red))
}

func TestCounts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AlertCounts{Total: 5, Red: 2, Amber: 3}, Counts(sampleAlerts()))
	assert.Equal(t, AlertCounts{}, Counts(nil))
}
