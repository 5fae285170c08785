package fmi

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastXML = `<?xml version="1.0" encoding="UTF-8"?>
<wfs:FeatureCollection numberReturned="1" xmlns:wfs="http://www.opengis.net/wfs/2.0">
  <wfs:member>
    <omso:GridSeriesObservation xmlns:omso="http://inspire.ec.europa.eu/schemas/omso/3.0">
      <om:result xmlns:om="http://www.opengis.net/om/2.0">
        <gmlcov:MultiPointCoverage xmlns:gmlcov="http://www.opengis.net/gmlcov/1.0">
          <gml:domainSet xmlns:gml="http://www.opengis.net/gml/3.2">
            <gmlcov:SimpleMultiPoint srsName="http://www.opengis.net/def/crs/EPSG/0/4258">
              <gmlcov:positions>
                60.1699 24.9384 1718352000
                60.1699 24.9384 1718355600
                60.1699 24.9384 1718359200
              </gmlcov:positions>
            </gmlcov:SimpleMultiPoint>
          </gml:domainSet>
          <gml:rangeSet xmlns:gml="http://www.opengis.net/gml/3.2">
            <gml:DataBlock>
              <gml:doubleOrNilReasonTupleList>
                18.5 55.0 4.2
                19.1 NaN 3.8
                20.0 52.0 5.1
              </gml:doubleOrNilReasonTupleList>
            </gml:DataBlock>
          </gml:rangeSet>
          <gml:rangeType xmlns:gml="http://www.opengis.net/gml/3.2">
            <swe:DataRecord xmlns:swe="http://www.opengis.net/swe/2.0">
              <swe:field name="Temperature"/>
              <swe:field name="Humidity"/>
              <swe:field name="WindSpeedMS"/>
            </swe:DataRecord>
          </gml:rangeType>
        </gmlcov:MultiPointCoverage>
      </om:result>
    </omso:GridSeriesObservation>
  </wfs:member>
</wfs:FeatureCollection>`

const lightningXML = `<?xml version="1.0" encoding="UTF-8"?>
<wfs:FeatureCollection numberReturned="1" xmlns:wfs="http://www.opengis.net/wfs/2.0">
  <wfs:member>
    <omso:GridSeriesObservation xmlns:omso="http://inspire.ec.europa.eu/schemas/omso/3.0">
      <om:result xmlns:om="http://www.opengis.net/om/2.0">
        <gmlcov:MultiPointCoverage xmlns:gmlcov="http://www.opengis.net/gmlcov/1.0">
          <gml:domainSet xmlns:gml="http://www.opengis.net/gml/3.2">
            <gmlcov:SimpleMultiPoint>
              <gmlcov:positions>
                61.5 25.7 1718352060
                60.5 24.1 1718352120
              </gmlcov:positions>
            </gmlcov:SimpleMultiPoint>
          </gml:domainSet>
          <gml:rangeSet xmlns:gml="http://www.opengis.net/gml/3.2">
            <gml:DataBlock>
              <gml:doubleOrNilReasonTupleList>
                1.0 -12.4 0.0 2.1
                3.0 45.0 1.0 1.4
              </gml:doubleOrNilReasonTupleList>
            </gml:DataBlock>
          </gml:rangeSet>
          <gml:rangeType xmlns:gml="http://www.opengis.net/gml/3.2">
            <swe:DataRecord xmlns:swe="http://www.opengis.net/swe/2.0">
              <swe:field name="multiplicity"/>
              <swe:field name="peak_current"/>
              <swe:field name="cloud_indicator"/>
              <swe:field name="ellipse_major"/>
            </swe:DataRecord>
          </gml:rangeType>
        </gmlcov:MultiPointCoverage>
      </om:result>
    </omso:GridSeriesObservation>
  </wfs:member>
</wfs:FeatureCollection>`

func TestDecodeCoverage_Forecast(t *testing.T) {
	fields, rows, err := decodeCoverage(strings.NewReader(forecastXML))
	require.NoError(t, err)

	assert.Equal(t, []string{"Temperature", "Humidity", "WindSpeedMS"}, fields)
	require.Len(t, rows, 3)

	assert.Equal(t, time.Unix(1718352000, 0).UTC(), rows[0].Time)
	assert.Equal(t, 60.1699, rows[0].Geo.Lat)
	assert.Equal(t, 24.9384, rows[0].Geo.Lon)
}

func TestWeatherRecords_MapsFieldsByName(t *testing.T) {
	fields, rows, err := decodeCoverage(strings.NewReader(forecastXML))
	require.NoError(t, err)

	records := weatherRecords(fields, rows)
	require.Len(t, records, 3)

	first := records[0]
	require.NotNil(t, first.Temperature)
	assert.Equal(t, 18.5, *first.Temperature)
	require.NotNil(t, first.Humidity)
	assert.Equal(t, 55.0, *first.Humidity)
	require.NotNil(t, first.WindSpeed)
	assert.Equal(t, 4.2, *first.WindSpeed)
}

func TestWeatherRecords_NaNBecomesNil(t *testing.T) {
	fields, rows, err := decodeCoverage(strings.NewReader(forecastXML))
	require.NoError(t, err)

	records := weatherRecords(fields, rows)
	require.Len(t, records, 3)

	assert.Nil(t, records[1].Humidity, "NaN must map to a missing value")
	assert.NotNil(t, records[1].Temperature)
}

func TestWeatherRecords_ObservationFieldNames(t *testing.T) {
	v := 21.5
	fields := []string{"t2m", "rh", "ws_10min"}
	rows := []sample{{Time: time.Now(), Values: []*float64{&v, &v, &v}}}

	records := weatherRecords(fields, rows)
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].Temperature)
	assert.NotNil(t, records[0].Humidity)
	assert.NotNil(t, records[0].WindSpeed)
}

func TestLightningObservations(t *testing.T) {
	fields, rows, err := decodeCoverage(strings.NewReader(lightningXML))
	require.NoError(t, err)

	obs := lightningObservations(fields, rows)
	require.Len(t, obs, 2)

	first := obs[0]
	assert.Equal(t, time.Unix(1718352060, 0).UTC(), first.Time)
	assert.Equal(t, 61.5, first.Geo.Lat)
	assert.Equal(t, 1, first.Strikes)
	assert.Equal(t, -12.4, first.PeakCurrent)
	assert.Equal(t, 0.0, first.CloudCover)
	assert.Equal(t, 2.1, first.EllipseMajor)

	second := obs[1]
	assert.Equal(t, 3, second.Strikes)
	assert.Equal(t, 1.0, second.CloudCover)
}

func TestDecodeCoverage_ValueCountMismatch(t *testing.T) {
	broken := strings.Replace(forecastXML, "20.0 52.0 5.1", "20.0 52.0", 1)
	_, _, err := decodeCoverage(strings.NewReader(broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value count mismatch")
}

func TestDecodeCoverage_EmptyCollection(t *testing.T) {
	empty := `<wfs:FeatureCollection numberReturned="0" xmlns:wfs="http://www.opengis.net/wfs/2.0"></wfs:FeatureCollection>`
	fields, rows, err := decodeCoverage(strings.NewReader(empty))
	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.Empty(t, rows)
}
