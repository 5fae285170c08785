package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func hourRecord(hour int, temp, humidity, wind, precip float64) ForecastRecord {
	return ForecastRecord{
		Time:          time.Date(2024, 6, 14, hour, 0, 0, 0, time.UTC),
		Temperature:   fptr(temp),
		Humidity:      fptr(humidity),
		WindSpeed:     fptr(wind),
		Precipitation: fptr(precip),
	}
}

func defaultPref() ComfortPreference {
	return ComfortPreference{
		MinTemperature: 15, MaxTemperature: 25,
		MinHumidity: 35, MaxHumidity: 70,
		MinWindSpeed: 0, MaxWindSpeed: 30,
		MinPrecipitation: 0, MaxPrecipitation: 1,
	}
}

func TestBestTime_EarliestQualifyingWins(t *testing.T) {
	records := []ForecastRecord{
		hourRecord(8, 30, 50, 5, 0), // too hot
		hourRecord(9, 20, 50, 5, 0), // qualifies
		hourRecord(10, 22, 50, 5, 0), // also qualifies, but later
	}

	result := BestTime(records, defaultPref())
	require.True(t, result.Available)
	assert.Equal(t, 9, result.Record.Time.Hour())
}

func TestBestTime_NoneQualify(t *testing.T) {
	records := []ForecastRecord{
		hourRecord(8, 30, 50, 5, 0),  // too hot
		hourRecord(9, 20, 90, 5, 0),  // too humid
		hourRecord(10, 20, 50, 40, 0), // too windy
		hourRecord(11, 20, 50, 5, 3), // too wet
	}

	result := BestTime(records, defaultPref())
	assert.False(t, result.Available)
}

func TestBestTime_BoundsAreClosed(t *testing.T) {
	// Every measurement exactly on a bound still qualifies.
	records := []ForecastRecord{hourRecord(12, 25, 70, 30, 1)}

	result := BestTime(records, defaultPref())
	assert.True(t, result.Available)
}

func TestBestTime_SkipsRecordsWithMissingFields(t *testing.T) {
	missingHumidity := hourRecord(8, 20, 0, 5, 0)
	missingHumidity.Humidity = nil

	records := []ForecastRecord{
		missingHumidity,
		hourRecord(9, 20, 50, 5, 0),
	}

	result := BestTime(records, defaultPref())
	require.True(t, result.Available)
	assert.Equal(t, 9, result.Record.Time.Hour(), "record with missing field must never qualify")
}

func TestBestTime_AllFieldsMissing(t *testing.T) {
	records := []ForecastRecord{
		{Time: time.Date(2024, 6, 14, 8, 0, 0, 0, time.UTC)},
	}
	result := BestTime(records, defaultPref())
	assert.False(t, result.Available)
}

func TestBestTime_EmptyInput(t *testing.T) {
	result := BestTime(nil, defaultPref())
	assert.False(t, result.Available)
}

func TestBestTime_Deterministic(t *testing.T) {
	records := []ForecastRecord{
		hourRecord(8, 30, 50, 5, 0),
		hourRecord(9, 20, 50, 5, 0),
	}
	pref := defaultPref()

	first := BestTime(records, pref)
	second := BestTime(records, pref)
	assert.Equal(t, first, second)
}

func TestRecordsForDay(t *testing.T) {
	ref := time.Date(2024, 6, 14, 10, 30, 0, 0, time.UTC)
	records := []ForecastRecord{
		{Time: time.Date(2024, 6, 14, 8, 0, 0, 0, time.UTC)},
		{Time: time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC)},
		{Time: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)}, // next day
	}

	today := RecordsForDay(records, ref)
	require.Len(t, today, 2)
	assert.Equal(t, 8, today[0].Time.Hour())
	assert.Equal(t, 23, today[1].Time.Hour())
}

func TestRecordAtOffset(t *testing.T) {
	records := []ForecastRecord{
		hourRecord(9, 20, 50, 5, 0),
		hourRecord(10, 21, 50, 5, 0),
		hourRecord(11, 22, 50, 5, 0),
	}

	t.Run("offset selects hour", func(t *testing.T) {
		rec, ok := RecordAtOffset(records, 2)
		require.True(t, ok)
		assert.Equal(t, 10, rec.Time.Hour())
	})

	t.Run("offset beyond forecast clamps to last", func(t *testing.T) {
		rec, ok := RecordAtOffset(records, 24)
		require.True(t, ok)
		assert.Equal(t, 11, rec.Time.Hour())
	})

	t.Run("empty forecast", func(t *testing.T) {
		_, ok := RecordAtOffset(nil, 1)
		assert.False(t, ok)
	})
}
