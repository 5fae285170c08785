// Command bridge polls FMI open data for weather, forecast, and lightning
// observations, shapes them into home automation entity states, and serves
// them over HTTP and an optional Kafka sink.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/fmi-weather-bridge/internal/adapter/fmi"
	httpadapter "github.com/couchcryptid/fmi-weather-bridge/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/fmi-weather-bridge/internal/adapter/kafka"
	"github.com/couchcryptid/fmi-weather-bridge/internal/adapter/mapbox"
	"github.com/couchcryptid/fmi-weather-bridge/internal/config"
	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
	"github.com/couchcryptid/fmi-weather-bridge/internal/observability"
	"github.com/couchcryptid/fmi-weather-bridge/internal/refresh"
	"github.com/couchcryptid/fmi-weather-bridge/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Place-name resolution (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled, using coordinate names")
	}
	resolver := domain.NewPlaceResolver(geocoder, logger)

	fmiClient := fmi.NewClient(fmi.Options{
		BaseURL: cfg.FMIBaseURL,
		Timeout: cfg.FMITimeout,
		Logger:  logger,
		Metrics: metrics,
	})

	var lightning refresh.LightningFetcher
	if cfg.LightningEnabled {
		lightning = fmiClient
	}

	var publisher refresh.StatePublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka state sink enabled", "topic", cfg.KafkaStateTopic, "brokers", cfg.KafkaBrokers)
	}

	coordinator := refresh.New(fmiClient, lightning, resolver, publisher, logger, metrics, refresh.Options{
		Geo:                 domain.Geo{Lat: cfg.Latitude, Lon: cfg.Longitude},
		ForecastOffsetHours: cfg.ForecastOffsetHours,
		ForecastDays:        cfg.ForecastDays,
		DailyMode:           cfg.DailyMode,
		LightningRadiusKM:   cfg.LightningRadiusKM,
		Comfort:             cfg.Comfort,
	})

	sched := scheduler.New(coordinator, logger, scheduler.Options{
		WeatherInterval:   cfg.WeatherInterval,
		LightningInterval: cfg.LightningInterval,
		LightningEnabled:  cfg.LightningEnabled,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, coordinator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := sched.Start(); err != nil {
		logger.Error("scheduler start error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
