package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(dtTxt string, tempMin, tempMax float64, desc string) owTimeslot {
	var s owTimeslot
	s.DtTxt = dtTxt
	s.Main.TempMin = tempMin
	s.Main.TempMax = tempMax
	if desc != "" {
		s.Weather = []struct {
			Description string `json:"description"`
		}{{Description: desc}}
	}
	return s
}

func TestAggregateForecasts_MinMaxPerDay(t *testing.T) {
	forecasts := aggregateForecasts([]owTimeslot{
		slot("2026-09-10 06:00:00", 12.1, 14.0, "light rain"),
		slot("2026-09-10 12:00:00", 16.3, 21.8, "scattered clouds"),
		slot("2026-09-10 18:00:00", 13.5, 18.2, "clear sky"),
		slot("2026-09-11 09:00:00", 11.0, 19.5, "clear sky"),
	})

	require.Len(t, forecasts, 2)

	day1 := forecasts[0]
	assert.Equal(t, "2026-09-10", day1.Date)
	assert.Equal(t, 12.1, day1.TempMin)
	assert.Equal(t, 21.8, day1.TempMax)
	// first description of the day wins
	assert.Equal(t, "light rain", day1.Description)

	assert.Equal(t, "2026-09-11", forecasts[1].Date)
}

func TestAggregateForecasts_SortedByDate(t *testing.T) {
	forecasts := aggregateForecasts([]owTimeslot{
		slot("2026-09-12 09:00:00", 10, 20, "clear sky"),
		slot("2026-09-10 09:00:00", 10, 20, "clear sky"),
		slot("2026-09-11 09:00:00", 10, 20, "clear sky"),
	})

	require.Len(t, forecasts, 3)
	assert.Equal(t, "2026-09-10", forecasts[0].Date)
	assert.Equal(t, "2026-09-11", forecasts[1].Date)
	assert.Equal(t, "2026-09-12", forecasts[2].Date)
}

func TestAggregateForecasts_SkipsMalformedTimestamps(t *testing.T) {
	forecasts := aggregateForecasts([]owTimeslot{
		slot("", 10, 20, "clear sky"),
		slot("2026-09-10 09:00:00", 10, 20, "clear sky"),
	})
	require.Len(t, forecasts, 1)
	assert.Equal(t, "2026-09-10", forecasts[0].Date)
}
