package entity

import (
	"fmt"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
)

// Sensor measurement suffixes. Each one becomes sensor.<place>_<suffix>.
const (
	sensorPlace         = "place"
	sensorWeather       = "weather"
	sensorTemperature   = "temperature"
	sensorWindSpeed     = "wind_speed"
	sensorWindDirection = "wind_direction"
	sensorWindGust      = "wind_gust"
	sensorHumidity      = "humidity"
	sensorClouds        = "clouds"
	sensorRain          = "rain"
	sensorForecastTime  = "time"
	sensorBestTime      = "best_time_of_day"
	sensorLightning     = "lightning"
)

func sensorID(place, measurement string) string {
	return fmt.Sprintf("sensor.%s_%s", Slugify(place), measurement)
}

// BuildSensorStates renders the current conditions of a snapshot as one
// sensor entity per measurement.
func BuildSensorStates(snap domain.WeatherSnapshot, best domain.BestTimeResult) []State {
	cur := snap.Current
	geo := geoAttributes(snap.Geo)

	unit := func(u string) map[string]any {
		attrs := baseAttributes(geo)
		attrs["unit_of_measurement"] = u
		return attrs
	}

	states := []State{
		{
			EntityID:   sensorID(snap.Place, sensorPlace),
			State:      snap.Place,
			Attributes: baseAttributes(geo),
		},
		{
			EntityID:   sensorID(snap.Place, sensorWeather),
			State:      conditionState(cur.Symbol),
			Attributes: baseAttributes(map[string]any{"symbol": cur.Symbol}),
		},
		{
			EntityID:   sensorID(snap.Place, sensorTemperature),
			State:      numState(cur.Temperature),
			Attributes: unit("°C"),
		},
		{
			EntityID:   sensorID(snap.Place, sensorWindSpeed),
			State:      numState(cur.WindSpeed),
			Attributes: unit("m/s"),
		},
		{
			EntityID: sensorID(snap.Place, sensorWindDirection),
			State:    compassState(cur.WindDirection),
			Attributes: baseAttributes(map[string]any{
				"degrees": floatOrNil(cur.WindDirection),
			}),
		},
		{
			EntityID:   sensorID(snap.Place, sensorWindGust),
			State:      numState(cur.WindGust),
			Attributes: unit("m/s"),
		},
		{
			EntityID:   sensorID(snap.Place, sensorHumidity),
			State:      numState(cur.Humidity),
			Attributes: unit("%"),
		},
		{
			EntityID:   sensorID(snap.Place, sensorClouds),
			State:      numState(cur.CloudCover),
			Attributes: unit("%"),
		},
		{
			EntityID:   sensorID(snap.Place, sensorRain),
			State:      numState(cur.Precipitation),
			Attributes: unit("mm/h"),
		},
		{
			EntityID:   sensorID(snap.Place, sensorForecastTime),
			State:      timeState(cur.Time),
			Attributes: baseAttributes(nil),
		},
		buildBestTimeState(snap.Place, best),
	}
	return states
}

func conditionState(symbol int) string {
	if c := domain.Condition(symbol); c != "" {
		return c
	}
	return StateUnavailable
}

func compassState(degrees *float64) string {
	if degrees == nil {
		return StateUnavailable
	}
	return domain.CompassPoint(degrees)
}

func buildBestTimeState(place string, best domain.BestTimeResult) State {
	if !best.Available {
		return State{
			EntityID:   sensorID(place, sensorBestTime),
			State:      StateUnavailable,
			Attributes: baseAttributes(nil),
		}
	}

	rec := best.Record
	return State{
		EntityID: sensorID(place, sensorBestTime),
		State:    timeState(rec.Time),
		Attributes: baseAttributes(map[string]any{
			"temperature":   floatOrNil(rec.Temperature),
			"humidity":      floatOrNil(rec.Humidity),
			"wind_speed":    floatOrNil(rec.WindSpeed),
			"precipitation": floatOrNil(rec.Precipitation),
		}),
	}
}

// BuildLightningState renders recent strikes as one sensor whose state is
// the most recent strike's location and whose attributes carry the rest.
func BuildLightningState(place string, obs []domain.LightningObservation) State {
	id := sensorID(place, sensorLightning)
	if len(obs) == 0 {
		return State{
			EntityID:   id,
			State:      "none",
			Attributes: baseAttributes(map[string]any{"strikes": []any{}}),
		}
	}

	strikes := make([]map[string]any, 0, len(obs))
	for _, o := range obs {
		strikes = append(strikes, map[string]any{
			"time":          timeState(o.Time),
			"latitude":      o.Geo.Lat,
			"longitude":     o.Geo.Lon,
			"distance_km":   o.DistanceKM,
			"location":      o.Place,
			"strikes":       o.Strikes,
			"peak_current":  o.PeakCurrent,
			"cloud_cover":   o.CloudCover,
			"ellipse_major": o.EllipseMajor,
		})
	}

	latest := obs[0]
	state := latest.Place
	if state == "" {
		state = fmt.Sprintf("%.4f, %.4f", latest.Geo.Lat, latest.Geo.Lon)
	}

	return State{
		EntityID: id,
		State:    state,
		Attributes: baseAttributes(map[string]any{
			"strikes":      strikes,
			"closest_time": timeState(latest.Time),
			"distance_km":  latest.DistanceKM,
			"peak_current": latest.PeakCurrent,
			"strike_count": len(obs),
		}),
	}
}
