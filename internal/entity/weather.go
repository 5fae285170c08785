package entity

import (
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
)

// BuildWeatherState renders a snapshot as a single weather entity whose
// state is the current condition and whose attributes carry the current
// measurements plus the forecast. With daily set, hourly records are folded
// into one forecast entry per calendar day.
func BuildWeatherState(snap domain.WeatherSnapshot, daily bool) State {
	cur := snap.Current

	forecast := hourlyForecast(snap.Forecast)
	if daily {
		forecast = dailyForecast(snap.Forecast)
	}

	return State{
		EntityID: fmt.Sprintf("weather.%s", Slugify(snap.Place)),
		State:    conditionState(cur.Symbol),
		Attributes: baseAttributes(map[string]any{
			"latitude":       snap.Geo.Lat,
			"longitude":      snap.Geo.Lon,
			"temperature":    floatOrNil(cur.Temperature),
			"humidity":       floatOrNil(cur.Humidity),
			"pressure":       floatOrNil(cur.Pressure),
			"wind_speed":     floatOrNil(cur.WindSpeed),
			"wind_gust":      floatOrNil(cur.WindGust),
			"wind_bearing":   floatOrNil(cur.WindDirection),
			"dew_point":      floatOrNil(cur.DewPoint),
			"cloud_coverage": floatOrNil(cur.CloudCover),
			"forecast":       forecast,
			"updated_at":     timeState(snap.FetchedAt),
		}),
	}
}

func hourlyForecast(records []domain.ForecastRecord) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, map[string]any{
			"datetime":      timeState(rec.Time),
			"condition":     conditionState(rec.Symbol),
			"temperature":   floatOrNil(rec.Temperature),
			"humidity":      floatOrNil(rec.Humidity),
			"wind_speed":    floatOrNil(rec.WindSpeed),
			"wind_bearing":  floatOrNil(rec.WindDirection),
			"precipitation": floatOrNil(rec.Precipitation),
		})
	}
	return out
}

// dailyForecast folds hourly records into per-day entries with the day's
// temperature high and low, summed precipitation, and the midday condition.
func dailyForecast(records []domain.ForecastRecord) []map[string]any {
	type dayAgg struct {
		date      time.Time
		high, low *float64
		precip    float64
		hasPrecip bool
		condition string
	}

	days := make(map[string]*dayAgg)
	order := make([]string, 0)

	for _, rec := range records {
		day := rec.Time.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")

		agg, ok := days[key]
		if !ok {
			agg = &dayAgg{date: day}
			days[key] = agg
			order = append(order, key)
		}

		if rec.Temperature != nil {
			t := *rec.Temperature
			if agg.high == nil || t > *agg.high {
				agg.high = &t
			}
			if agg.low == nil || t < *agg.low {
				agg.low = &t
			}
		}
		if rec.Precipitation != nil {
			agg.precip += *rec.Precipitation
			agg.hasPrecip = true
		}
		// The condition closest to midday represents the day.
		if agg.condition == "" || rec.Time.UTC().Hour() == 12 {
			agg.condition = conditionState(rec.Symbol)
		}
	}

	sort.Strings(order)

	out := make([]map[string]any, 0, len(order))
	for _, key := range order {
		agg := days[key]
		entry := map[string]any{
			"datetime":    timeState(agg.date),
			"condition":   agg.condition,
			"temperature": floatOrNil(agg.high),
			"templow":     floatOrNil(agg.low),
		}
		if agg.hasPrecip {
			entry["precipitation"] = agg.precip
		} else {
			entry["precipitation"] = nil
		}
		out = append(out, entry)
	}
	return out
}
