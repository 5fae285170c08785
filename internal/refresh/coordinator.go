// Package refresh orchestrates the periodic fetch-shape-publish cycles that
// keep the bridge's weather snapshot and lightning observations current.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
	"github.com/couchcryptid/fmi-weather-bridge/internal/entity"
	"github.com/couchcryptid/fmi-weather-bridge/internal/observability"
)

// WeatherFetcher provides forecast and observed conditions for a coordinate.
type WeatherFetcher interface {
	Forecast(ctx context.Context, geo domain.Geo, horizon time.Duration) ([]domain.ForecastRecord, error)
	LatestObservation(ctx context.Context, geo domain.Geo) (domain.ForecastRecord, bool, error)
}

// LightningFetcher provides strike observations inside a bounding box.
type LightningFetcher interface {
	LightningStrikes(ctx context.Context, box domain.BoundingBox, since time.Time) ([]domain.LightningObservation, error)
}

// PlaceResolver turns coordinates into a display name.
type PlaceResolver interface {
	Resolve(ctx context.Context, geo domain.Geo) string
}

// StatePublisher pushes entity states to an external sink. May be nil when
// no sink is configured.
type StatePublisher interface {
	PublishStates(ctx context.Context, states []entity.State) error
}

// Options configures a Coordinator.
type Options struct {
	Geo                 domain.Geo
	ForecastOffsetHours int
	ForecastDays        int
	DailyMode           bool
	LightningRadiusKM   float64
	LightningWindow     time.Duration
	Comfort             domain.ComfortPreference
}

// Coordinator runs refresh cycles and serves the latest results. A failed
// cycle keeps the previous snapshot so readers never see partial data.
type Coordinator struct {
	weather   WeatherFetcher
	lightning LightningFetcher
	resolver  PlaceResolver
	publisher StatePublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options

	ready atomic.Bool

	mu        sync.RWMutex
	snapshot  domain.WeatherSnapshot
	hasSnap   bool
	best      domain.BestTimeResult
	strikes   []domain.LightningObservation
}

// New creates a Coordinator. lightning and publisher may be nil when those
// features are disabled.
func New(weather WeatherFetcher, lightning LightningFetcher, resolver PlaceResolver, publisher StatePublisher,
	logger *slog.Logger, metrics *observability.Metrics, opts Options) *Coordinator {
	if opts.LightningWindow <= 0 {
		opts.LightningWindow = 30 * time.Minute
	}
	return &Coordinator{
		weather:   weather,
		lightning: lightning,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// CheckReadiness returns nil once the first weather refresh has succeeded.
func (c *Coordinator) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("no weather snapshot fetched yet")
	}
	return nil
}

// RefreshWeather runs one weather cycle: fetch the forecast, pick the
// current record, resolve the place name, recompute the best time of day,
// and publish the resulting entity states.
func (c *Coordinator) RefreshWeather(ctx context.Context) error {
	start := time.Now()

	horizon := 24 * time.Hour
	if c.opts.ForecastDays > 1 {
		horizon = time.Duration(c.opts.ForecastDays) * 24 * time.Hour
	}

	records, err := c.weather.Forecast(ctx, c.opts.Geo, horizon)
	if err != nil {
		c.metrics.RefreshTotal.WithLabelValues("weather", "error").Inc()
		c.logger.Error("weather refresh failed", "error", err)
		return err
	}

	current, ok := domain.RecordAtOffset(records, c.opts.ForecastOffsetHours)
	if !ok {
		c.metrics.RefreshTotal.WithLabelValues("weather", "error").Inc()
		err := errors.New("forecast response contained no records")
		c.logger.Error("weather refresh failed", "error", err)
		return err
	}
	c.fillFromObservation(ctx, &current)

	now := domain.Now()
	snapshot := domain.WeatherSnapshot{
		Place:     c.resolver.Resolve(ctx, c.opts.Geo),
		Geo:       c.opts.Geo,
		Current:   current,
		Forecast:  records,
		FetchedAt: now,
	}
	best := domain.BestTime(domain.RecordsForDay(records, now), c.opts.Comfort)

	c.mu.Lock()
	c.snapshot = snapshot
	c.hasSnap = true
	c.best = best
	c.mu.Unlock()
	c.ready.Store(true)

	c.metrics.RefreshTotal.WithLabelValues("weather", "success").Inc()
	c.metrics.RefreshDuration.WithLabelValues("weather").Observe(time.Since(start).Seconds())
	c.metrics.SnapshotAgeSeconds.Set(0)

	c.logger.Info("weather snapshot refreshed",
		"place", snapshot.Place,
		"records", len(records),
		"best_time_available", best.Available)

	c.publish(ctx)
	return nil
}

// fillFromObservation backfills missing current measurements from the
// nearest station's latest report. Forecast values win when present.
func (c *Coordinator) fillFromObservation(ctx context.Context, current *domain.ForecastRecord) {
	obs, ok, err := c.weather.LatestObservation(ctx, c.opts.Geo)
	if err != nil {
		c.logger.Warn("observation fetch failed, serving forecast only", "error", err)
		return
	}
	if !ok {
		return
	}

	fill := func(dst **float64, src *float64) {
		if *dst == nil && src != nil {
			*dst = src
		}
	}
	fill(&current.Temperature, obs.Temperature)
	fill(&current.Humidity, obs.Humidity)
	fill(&current.WindSpeed, obs.WindSpeed)
	fill(&current.WindGust, obs.WindGust)
	fill(&current.WindDirection, obs.WindDirection)
	fill(&current.Pressure, obs.Pressure)
	fill(&current.DewPoint, obs.DewPoint)
	fill(&current.Precipitation, obs.Precipitation)
	fill(&current.CloudCover, obs.CloudCover)
}

// RefreshLightning runs one lightning cycle: fetch recent strikes around
// the configured coordinate, keep the nearest few, and name their locations.
func (c *Coordinator) RefreshLightning(ctx context.Context) error {
	if c.lightning == nil {
		return nil
	}
	start := time.Now()

	box := domain.BoundingBoxAround(c.opts.Geo, c.opts.LightningRadiusKM)
	since := domain.Now().Add(-c.opts.LightningWindow)

	obs, err := c.lightning.LightningStrikes(ctx, box, since)
	if err != nil {
		c.metrics.RefreshTotal.WithLabelValues("lightning", "error").Inc()
		c.logger.Error("lightning refresh failed", "error", err)
		return err
	}

	// The bbox corners reach past the radius; keep true-distance hits only.
	inRange := make([]domain.LightningObservation, 0, len(obs))
	for _, o := range obs {
		o.DistanceKM = domain.DistanceKM(c.opts.Geo, o.Geo)
		if o.DistanceKM <= c.opts.LightningRadiusKM {
			inRange = append(inRange, o)
		}
	}

	selected := domain.SelectNearest(inRange, domain.LightningDisplayLimit)
	for i := range selected {
		selected[i].Place = c.resolver.Resolve(ctx, selected[i].Geo)
	}

	c.mu.Lock()
	c.strikes = selected
	c.mu.Unlock()

	c.metrics.LightningStrikes.Set(float64(len(inRange)))
	c.metrics.RefreshTotal.WithLabelValues("lightning", "success").Inc()
	c.metrics.RefreshDuration.WithLabelValues("lightning").Observe(time.Since(start).Seconds())

	c.logger.Info("lightning observations refreshed",
		"in_range", len(inRange),
		"kept", len(selected))

	c.publish(ctx)
	return nil
}

func (c *Coordinator) publish(ctx context.Context) {
	if c.publisher == nil {
		return
	}
	states := c.States()
	if len(states) == 0 {
		return
	}
	if err := c.publisher.PublishStates(ctx, states); err != nil {
		c.logger.Error("state publish failed", "error", err, "states", len(states))
		return
	}
	c.metrics.StatesPublished.Add(float64(len(states)))
}

// Snapshot returns the latest weather snapshot, false before the first
// successful refresh.
func (c *Coordinator) Snapshot() (domain.WeatherSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, c.hasSnap
}

// BestTime returns the latest best-time-of-day result.
func (c *Coordinator) BestTime() domain.BestTimeResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.best
}

// Lightning returns the latest selected strikes, newest first.
func (c *Coordinator) Lightning() []domain.LightningObservation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.LightningObservation, len(c.strikes))
	copy(out, c.strikes)
	return out
}

// States renders the current snapshot and strikes as entity documents.
// Empty before the first successful weather refresh.
func (c *Coordinator) States() []entity.State {
	c.mu.RLock()
	snapshot, ok := c.snapshot, c.hasSnap
	best := c.best
	strikes := c.strikes
	c.mu.RUnlock()

	if !ok {
		return nil
	}

	states := entity.BuildSensorStates(snapshot, best)
	states = append(states, entity.BuildWeatherState(snapshot, c.opts.DailyMode))
	if c.lightning != nil {
		states = append(states, entity.BuildLightningState(snapshot.Place, strikes))
	}
	return states
}

// ObserveSnapshotAge updates the snapshot age gauge. Called from the
// scheduler between refreshes so the gauge tracks staleness.
func (c *Coordinator) ObserveSnapshotAge() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasSnap {
		return
	}
	c.metrics.SnapshotAgeSeconds.Set(domain.Now().Sub(c.snapshot.FetchedAt).Seconds())
}
