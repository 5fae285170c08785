package fmi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
)

const exceptionXML = `<?xml version="1.0" encoding="UTF-8"?>
<ExceptionReport xmlns="http://www.opengis.net/ows/1.1" version="2.0.0">
  <Exception exceptionCode="InvalidParameterValue" locator="request">
    <ExceptionText>Invalid time interval!</ExceptionText>
    <ExceptionText>The start time is later than the end time.</ExceptionText>
  </Exception>
</ExceptionReport>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{
		BaseURL:           server.URL,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
	})
}

func TestClient_Forecast(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"storedquery_id": r.URL.Query().Get("storedquery_id"),
			"latlon":         r.URL.Query().Get("latlon"),
			"timestep":       r.URL.Query().Get("timestep"),
			"service":        r.URL.Query().Get("service"),
		}
		w.Write([]byte(forecastXML))
	})

	records, err := client.Forecast(t.Context(), domain.Geo{Lat: 60.1699, Lon: 24.9384}, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, forecastQuery, gotQuery["storedquery_id"])
	assert.Equal(t, "60.1699,24.9384", gotQuery["latlon"])
	assert.Equal(t, "60", gotQuery["timestep"])
	assert.Equal(t, "WFS", gotQuery["service"])
}

func TestClient_LatestObservation_PicksNewestRow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, observationQuery, r.URL.Query().Get("storedquery_id"))
		w.Write([]byte(forecastXML))
	})

	rec, ok, err := client.LatestObservation(t.Context(), domain.Geo{Lat: 60.1699, Lon: 24.9384})
	require.NoError(t, err)
	require.True(t, ok)

	// The sample payload's last row is the 20.0 degree one.
	require.NotNil(t, rec.Temperature)
	assert.Equal(t, 20.0, *rec.Temperature)
}

func TestClient_LatestObservation_NoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<wfs:FeatureCollection numberReturned="0" xmlns:wfs="http://www.opengis.net/wfs/2.0"></wfs:FeatureCollection>`))
	})

	_, ok, err := client.LatestObservation(t.Context(), domain.Geo{Lat: 60.1699, Lon: 24.9384})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_LightningStrikes_SendsBBox(t *testing.T) {
	var gotBBox string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBBox = r.URL.Query().Get("bbox")
		w.Write([]byte(lightningXML))
	})

	box := domain.BoundingBox{MinLat: 58.5, MinLon: 15.3, MaxLat: 70.4, MaxLon: 39.2}
	obs, err := client.LightningStrikes(t.Context(), box, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, "15.3000,58.5000,39.2000,70.4000", gotBBox, "bbox must be lon-first")
}

func TestClient_DecodesExceptionReport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(exceptionXML))
	})

	_, err := client.Forecast(t.Context(), domain.Geo{Lat: 60, Lon: 24}, time.Hour)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "InvalidParameterValue")
	assert.Contains(t, err.Error(), "Invalid time interval!")
}

func TestClient_NonXMLErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	_, err := client.Forecast(t.Context(), domain.Geo{Lat: 60, Lon: 24}, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	geo := domain.Geo{Lat: 60, Lon: 24}
	for i := 0; i < 5; i++ {
		_, err := client.Forecast(t.Context(), geo, time.Hour)
		require.Error(t, err)
	}

	_, err := client.Forecast(t.Context(), geo, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit open")
}
