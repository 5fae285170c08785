package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/fmi-weather-bridge/internal/adapter/http"
	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
	"github.com/couchcryptid/fmi-weather-bridge/internal/entity"
)

// --- mocks ---

type mockSource struct {
	readyErr error
	snapshot domain.WeatherSnapshot
	hasSnap  bool
	best     domain.BestTimeResult
	strikes  []domain.LightningObservation
	states   []entity.State
}

func (m *mockSource) CheckReadiness(_ context.Context) error { return m.readyErr }

func (m *mockSource) Snapshot() (domain.WeatherSnapshot, bool) { return m.snapshot, m.hasSnap }

func (m *mockSource) BestTime() domain.BestTimeResult { return m.best }

func (m *mockSource) Lightning() []domain.LightningObservation { return m.strikes }

func (m *mockSource) States() []entity.State { return m.states }

func newTestServer(source *mockSource) *httpadapter.Server {
	return httpadapter.NewServer(":0", source, slog.Default())
}

func get(t *testing.T, srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{readyErr: fmt.Errorf("no snapshot yet")}), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no snapshot yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestWeatherEndpoint(t *testing.T) {
	temp := 18.5
	source := &mockSource{
		hasSnap: true,
		snapshot: domain.WeatherSnapshot{
			Place:     "Helsinki",
			Geo:       domain.Geo{Lat: 60.1699, Lon: 24.9384},
			Current:   domain.ForecastRecord{Time: time.Now(), Temperature: &temp},
			FetchedAt: time.Now(),
		},
		best: domain.BestTimeResult{Available: true},
	}

	rec := get(t, newTestServer(source), "/api/v1/weather")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Snapshot domain.WeatherSnapshot `json:"snapshot"`
		BestTime domain.BestTimeResult  `json:"best_time"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Helsinki", body.Snapshot.Place)
	assert.True(t, body.BestTime.Available)
}

func TestWeatherEndpoint_NoSnapshot(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/api/v1/weather")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLightningEndpoint(t *testing.T) {
	source := &mockSource{
		strikes: []domain.LightningObservation{
			{Time: time.Now(), Geo: domain.Geo{Lat: 61.5, Lon: 25.7}, DistanceKM: 42.3},
		},
	}

	rec := get(t, newTestServer(source), "/api/v1/lightning")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Strikes []domain.LightningObservation `json:"strikes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Strikes, 1)
	assert.Equal(t, 42.3, body.Strikes[0].DistanceKM)
}

func TestLightningEndpoint_EmptyIsArray(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/api/v1/lightning")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"strikes":[]`)
}

func TestStatesEndpoint(t *testing.T) {
	source := &mockSource{
		states: []entity.State{
			{EntityID: "sensor.helsinki_temperature", State: "18.5"},
		},
	}

	rec := get(t, newTestServer(source), "/api/v1/states")
	assert.Equal(t, http.StatusOK, rec.Code)

	var states []entity.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	require.Len(t, states, 1)
	assert.Equal(t, "sensor.helsinki_temperature", states[0].EntityID)
}

func TestStatesEndpoint_Empty(t *testing.T) {
	rec := get(t, newTestServer(&mockSource{}), "/api/v1/states")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
