package fmi

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
)

// sample is one decoded multipointcoverage row: a position triplet plus the
// field values reported for it. A nil value means the upstream sent "NaN".
type sample struct {
	Geo    domain.Geo
	Time   time.Time
	Values []*float64
}

// decodeCoverage decodes a WFS response body and flattens every member's
// multipointcoverage into rows. Field names come from the first member's
// rangeType; FMI repeats the same record layout across members of one query.
func decodeCoverage(r io.Reader) (fields []string, rows []sample, err error) {
	var fc featureCollection
	if err := xml.NewDecoder(r).Decode(&fc); err != nil {
		return nil, nil, fmt.Errorf("decode wfs response: %w", err)
	}

	for _, member := range fc.Members {
		cov := member.GridSeriesObservation.Result.MultiPointCoverage

		memberFields := make([]string, 0, len(cov.RangeType.DataRecord.Fields))
		for _, f := range cov.RangeType.DataRecord.Fields {
			memberFields = append(memberFields, f.Name)
		}
		if fields == nil {
			fields = memberFields
		}

		memberRows, err := decodeRows(cov, len(memberFields))
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, memberRows...)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })
	return fields, rows, nil
}

func decodeRows(cov multiPointCoverage, fieldCount int) ([]sample, error) {
	positions := strings.Fields(cov.DomainSet.SimpleMultiPoint.Positions)
	values := strings.Fields(cov.RangeSet.DataBlock.DoubleOrNilReasonTupleList)

	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("positions list length %d is not a multiple of 3", len(positions))
	}
	numRows := len(positions) / 3
	if numRows == 0 {
		return nil, nil
	}
	if fieldCount == 0 {
		return nil, fmt.Errorf("coverage has %d rows but no rangeType fields", numRows)
	}
	if len(values) != numRows*fieldCount {
		return nil, fmt.Errorf("value count mismatch: %d rows with %d fields needs %d values, got %d",
			numRows, fieldCount, numRows*fieldCount, len(values))
	}

	rows := make([]sample, 0, numRows)
	for i := 0; i < numRows; i++ {
		lat, err := strconv.ParseFloat(positions[i*3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q: %w", positions[i*3], err)
		}
		lon, err := strconv.ParseFloat(positions[i*3+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q: %w", positions[i*3+1], err)
		}
		epoch, err := strconv.ParseInt(positions[i*3+2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", positions[i*3+2], err)
		}

		row := sample{
			Geo:    domain.Geo{Lat: lat, Lon: lon},
			Time:   time.Unix(epoch, 0).UTC(),
			Values: make([]*float64, fieldCount),
		}
		for j := 0; j < fieldCount; j++ {
			raw := values[i*fieldCount+j]
			if raw == "NaN" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q for field %d: %w", raw, j, err)
			}
			row.Values[j] = &v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// weatherRecords shapes coverage rows into forecast records, one per time
// step, matching values to measurements by rangeType field name. Forecast
// and observation queries use different parameter names for the same
// measurements, so both spellings are accepted.
func weatherRecords(fields []string, rows []sample) []domain.ForecastRecord {
	records := make([]domain.ForecastRecord, 0, len(rows))
	for _, row := range rows {
		rec := domain.ForecastRecord{Time: row.Time}
		for j, name := range fields {
			if j >= len(row.Values) {
				break
			}
			assignMeasurement(&rec, name, row.Values[j])
		}
		records = append(records, rec)
	}
	return records
}

func assignMeasurement(rec *domain.ForecastRecord, name string, v *float64) {
	switch strings.ToLower(name) {
	case "temperature", "t2m":
		rec.Temperature = v
	case "humidity", "rh":
		rec.Humidity = v
	case "windspeedms", "ws_10min":
		rec.WindSpeed = v
	case "windgust", "wg_10min":
		rec.WindGust = v
	case "winddirection", "wd_10min":
		rec.WindDirection = v
	case "pressure", "p_sea":
		rec.Pressure = v
	case "dewpoint", "td":
		rec.DewPoint = v
	case "precipitation1h", "r_1h":
		rec.Precipitation = v
	case "totalcloudcover", "n_man":
		rec.CloudCover = v
	case "weathersymbol3", "wawa":
		if v != nil {
			rec.Symbol = int(*v)
		}
	}
}

// Lightning coverage field order served by FMI.
const (
	lightningMultiplicity   = "multiplicity"
	lightningPeakCurrent    = "peak_current"
	lightningCloudIndicator = "cloud_indicator"
	lightningEllipseMajor   = "ellipse_major"
)

// lightningObservations shapes coverage rows into strikes. Distance and
// place name are filled in later by the caller, which knows the center
// coordinates.
func lightningObservations(fields []string, rows []sample) []domain.LightningObservation {
	index := make(map[string]int, len(fields))
	for i, name := range fields {
		index[strings.ToLower(name)] = i
	}

	intAt := func(row sample, name string) int {
		i, ok := index[name]
		if !ok || i >= len(row.Values) || row.Values[i] == nil {
			return 0
		}
		return int(*row.Values[i])
	}
	floatAt := func(row sample, name string) float64 {
		i, ok := index[name]
		if !ok || i >= len(row.Values) || row.Values[i] == nil {
			return 0
		}
		return *row.Values[i]
	}

	obs := make([]domain.LightningObservation, 0, len(rows))
	for _, row := range rows {
		obs = append(obs, domain.LightningObservation{
			Time:         row.Time,
			Geo:          row.Geo,
			Strikes:      intAt(row, lightningMultiplicity),
			PeakCurrent:  floatAt(row, lightningPeakCurrent),
			CloudCover:   floatAt(row, lightningCloudIndicator),
			EllipseMajor: floatAt(row, lightningEllipseMajor),
		})
	}
	return obs
}
