package domain

// ComfortPreference holds the user's closed [min, max] comfort bounds.
// Immutable after configuration.
type ComfortPreference struct {
	MinTemperature   float64 `json:"min_temperature"`
	MaxTemperature   float64 `json:"max_temperature"`
	MinHumidity      float64 `json:"min_humidity"`
	MaxHumidity      float64 `json:"max_humidity"`
	MinWindSpeed     float64 `json:"min_wind_speed"`
	MaxWindSpeed     float64 `json:"max_wind_speed"`
	MinPrecipitation float64 `json:"min_precipitation"`
	MaxPrecipitation float64 `json:"max_precipitation"`
}

// BestTimeResult is either the selected forecast record or an explicit
// unavailable marker. Recomputed each refresh cycle, never persisted.
type BestTimeResult struct {
	Available bool           `json:"available"`
	Record    ForecastRecord `json:"record,omitzero"`
}

// BestTime returns the first record of a single day's ordered hourly
// forecast whose temperature, humidity, wind speed, and precipitation all
// fall within the preference bounds. Records missing any of the four
// measurements are skipped. The earliest qualifying hour wins; if none
// qualify the result is unavailable. Pure function.
func BestTime(records []ForecastRecord, pref ComfortPreference) BestTimeResult {
	for _, r := range records {
		if !within(r.Temperature, pref.MinTemperature, pref.MaxTemperature) {
			continue
		}
		if !within(r.Humidity, pref.MinHumidity, pref.MaxHumidity) {
			continue
		}
		if !within(r.WindSpeed, pref.MinWindSpeed, pref.MaxWindSpeed) {
			continue
		}
		if !within(r.Precipitation, pref.MinPrecipitation, pref.MaxPrecipitation) {
			continue
		}
		return BestTimeResult{Available: true, Record: r}
	}
	return BestTimeResult{}
}

// within reports whether a measurement is present and inside the closed
// [min, max] interval. A nil measurement never qualifies.
func within(v *float64, min, max float64) bool {
	return v != nil && *v >= min && *v <= max
}
