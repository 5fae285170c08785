package fmi

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
)

// Stored queries the bridge issues against the FMI WFS endpoint.
const (
	forecastQuery    = "fmi::forecast::harmonie::surface::point::multipointcoverage"
	observationQuery = "fmi::observations::weather::multipointcoverage"
	lightningQuery   = "fmi::observations::lightning::multipointcoverage"
)

const (
	forecastParameters    = "Temperature,Humidity,WindSpeedMS,WindGust,WindDirection,Pressure,DewPoint,Precipitation1h,TotalCloudCover,WeatherSymbol3"
	observationParameters = "t2m,rh,ws_10min,wg_10min,wd_10min,p_sea,td,r_1h,n_man,wawa"
)

// APIError is a decoded OWS exception report from the upstream.
type APIError struct {
	StatusCode int
	Code       string
	Text       string
}

func (e *APIError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("fmi api error [%s] (status %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("fmi api error [%s]: %s", e.Code, e.Text)
}

// Metrics is the subset of bridge metrics the client reports to.
type Metrics interface {
	SetBreakerOpen(open bool)
}

// Client fetches weather, forecast, and lightning data from the FMI open
// data WFS. Requests are rate limited and guarded by a circuit breaker so a
// struggling upstream is not hammered every refresh cycle.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// Options configures a Client. Zero values get sensible defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
	Metrics Metrics

	// RequestsPerSecond caps the request rate against the open data API.
	RequestsPerSecond float64
}

// NewClient builds a Client for the FMI open data endpoint.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://opendata.fmi.fi/wfs"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	settings := gobreaker.Settings{
		Name:    "fmi-wfs",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	if opts.Metrics != nil {
		metrics := opts.Metrics
		settings.OnStateChange = func(_ string, _, to gobreaker.State) {
			metrics.SetBreakerOpen(to == gobreaker.StateOpen)
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     opts.Logger,
	}
}

// Forecast fetches hourly forecast records for the coordinate, from now
// until now plus the requested horizon.
func (c *Client) Forecast(ctx context.Context, geo domain.Geo, horizon time.Duration) ([]domain.ForecastRecord, error) {
	now := domain.Now().UTC().Truncate(time.Hour)
	params := url.Values{}
	params.Set("storedquery_id", forecastQuery)
	params.Set("latlon", fmt.Sprintf("%.4f,%.4f", geo.Lat, geo.Lon))
	params.Set("parameters", forecastParameters)
	params.Set("timestep", "60")
	params.Set("starttime", now.Format(time.RFC3339))
	params.Set("endtime", now.Add(horizon).Format(time.RFC3339))

	fields, rows, err := c.fetchCoverage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	return weatherRecords(fields, rows), nil
}

// LatestObservation fetches the most recent measured conditions near the
// coordinate. Returns false when no station reported within the last hour.
func (c *Client) LatestObservation(ctx context.Context, geo domain.Geo) (domain.ForecastRecord, bool, error) {
	now := domain.Now().UTC()
	params := url.Values{}
	params.Set("storedquery_id", observationQuery)
	params.Set("latlon", fmt.Sprintf("%.4f,%.4f", geo.Lat, geo.Lon))
	params.Set("parameters", observationParameters)
	params.Set("maxlocations", "1")
	params.Set("starttime", now.Add(-time.Hour).Format(time.RFC3339))
	params.Set("endtime", now.Format(time.RFC3339))

	fields, rows, err := c.fetchCoverage(ctx, params)
	if err != nil {
		return domain.ForecastRecord{}, false, fmt.Errorf("fetch observation: %w", err)
	}

	records := weatherRecords(fields, rows)
	if len(records) == 0 {
		return domain.ForecastRecord{}, false, nil
	}
	// Rows are sorted oldest first; the last one is current.
	return records[len(records)-1], true, nil
}

// LightningStrikes fetches strikes inside the box since the given time.
func (c *Client) LightningStrikes(ctx context.Context, box domain.BoundingBox, since time.Time) ([]domain.LightningObservation, error) {
	params := url.Values{}
	params.Set("storedquery_id", lightningQuery)
	params.Set("bbox", box.String())
	params.Set("starttime", since.UTC().Format(time.RFC3339))
	params.Set("endtime", domain.Now().UTC().Format(time.RFC3339))

	fields, rows, err := c.fetchCoverage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetch lightning: %w", err)
	}
	return lightningObservations(fields, rows), nil
}

func (c *Client) fetchCoverage(ctx context.Context, params url.Values) ([]string, []sample, error) {
	params.Set("service", "WFS")
	params.Set("version", "2.0.0")
	params.Set("request", "getFeature")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	type coverage struct {
		fields []string
		rows   []sample
	}
	result, err := c.breaker.Execute(func() (any, error) {
		requestURL := c.baseURL + "?" + params.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, decodeAPIError(resp)
		}

		fields, rows, err := decodeCoverage(resp.Body)
		if err != nil {
			return nil, err
		}

		c.logger.Debug("fmi request complete",
			"stored_query", params.Get("storedquery_id"),
			"rows", len(rows),
			"duration", time.Since(start))
		return coverage{fields: fields, rows: rows}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, nil, fmt.Errorf("upstream circuit open: %w", err)
		}
		return nil, nil, err
	}

	cov := result.(coverage)
	return cov.fields, cov.rows, nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var report exceptionReport
	if err := xml.Unmarshal(body, &report); err == nil && len(report.Exceptions) > 0 {
		exc := report.Exceptions[0]
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: exc.ExceptionCode}
		if len(exc.ExceptionText) > 0 {
			apiErr.Text = strings.Join(exc.ExceptionText, " | ")
		}
		return apiErr
	}
	return fmt.Errorf("fmi api returned status %d", resp.StatusCode)
}
