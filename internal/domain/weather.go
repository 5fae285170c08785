package domain

import "time"

// ForecastRecord is one hour of forecast or observed weather. Measurements
// the upstream service did not report are nil, never zero.
type ForecastRecord struct {
	Time          time.Time `json:"time"`
	Temperature   *float64  `json:"temperature,omitempty"`    // °C
	Humidity      *float64  `json:"humidity,omitempty"`       // %
	WindSpeed     *float64  `json:"wind_speed,omitempty"`     // m/s
	WindGust      *float64  `json:"wind_gust,omitempty"`      // m/s
	WindDirection *float64  `json:"wind_direction,omitempty"` // degrees
	Pressure      *float64  `json:"pressure,omitempty"`       // hPa
	DewPoint      *float64  `json:"dew_point,omitempty"`      // °C
	Precipitation *float64  `json:"precipitation,omitempty"`  // mm/h
	CloudCover    *float64  `json:"cloud_cover,omitempty"`    // %
	Symbol        int       `json:"symbol,omitempty"`         // FMI weather symbol, 0 = unknown
}

// Geo is a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherSnapshot is the result of one successful weather refresh cycle.
// Snapshots are immutable once built; a failed refresh keeps the previous one.
type WeatherSnapshot struct {
	Place     string           `json:"place"`
	Geo       Geo              `json:"geo"`
	Current   ForecastRecord   `json:"current"`
	Forecast  []ForecastRecord `json:"forecast"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// RecordAtOffset returns the forecast record that should be displayed as
// "current" for the given look-ahead. With hourly records the record at
// index offsetHours-1 is the one offsetHours from now; when the forecast is
// shorter the last record is used. Returns false for an empty forecast.
func RecordAtOffset(forecast []ForecastRecord, offsetHours int) (ForecastRecord, bool) {
	if len(forecast) == 0 {
		return ForecastRecord{}, false
	}
	idx := offsetHours - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(forecast) {
		idx = len(forecast) - 1
	}
	return forecast[idx], true
}

// RecordsForDay filters records to those falling on the same calendar day as
// ref, evaluated in ref's time zone.
func RecordsForDay(records []ForecastRecord, ref time.Time) []ForecastRecord {
	y, m, d := ref.Date()
	var out []ForecastRecord
	for _, r := range records {
		ry, rm, rd := r.Time.In(ref.Location()).Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}
