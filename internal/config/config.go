package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
)

// Comfort threshold defaults match the documented sensor defaults.
const (
	defaultMinTemperature   = 10
	defaultMaxTemperature   = 30
	defaultMinHumidity      = 30
	defaultMaxHumidity      = 70
	defaultMinWindSpeed     = 0
	defaultMaxWindSpeed     = 25
	defaultMinPrecipitation = 0
	defaultMaxPrecipitation = 0.2
)

// Config holds all service settings, populated from environment variables.
// A .env file in the working directory is honored when present; real
// environment variables win over it.
type Config struct {
	Name      string  `validate:"required"`
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`

	// ForecastOffsetHours selects which forecast hour is reported as the
	// current conditions. The upstream API serves hourly steps, so only
	// these offsets are meaningful.
	ForecastOffsetHours int `validate:"oneof=1 2 3 4 6 8 12 24"`
	ForecastDays        int `validate:"gte=0,lte=10"`

	DailyMode         bool
	LightningEnabled  bool
	LightningRadiusKM float64 `validate:"gt=0"`

	Comfort domain.ComfortPreference

	WeatherInterval   time.Duration `validate:"gt=0"`
	LightningInterval time.Duration `validate:"gt=0"`

	HTTPAddr        string `validate:"required"`
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration `validate:"gt=0"`

	FMIBaseURL string        `validate:"required,url"`
	FMITimeout time.Duration `validate:"gt=0"`

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration `validate:"gt=0"`
	MapboxCacheSize int           `validate:"gt=0"`

	// Optional Kafka state sink; disabled when no brokers are set.
	KafkaBrokers    []string
	KafkaStateTopic string
}

// KafkaEnabled reports whether the entity state sink is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults
// where unset. A misconfigured bridge never starts.
func Load() (*Config, error) {
	_ = godotenv.Load()

	lat, err := requireFloat("LATITUDE")
	if err != nil {
		return nil, err
	}
	lon, err := requireFloat("LONGITUDE")
	if err != nil {
		return nil, err
	}

	offset, err := envInt("FORECAST_OFFSET_HOURS", 1)
	if err != nil {
		return nil, err
	}
	forecastDays, err := envInt("FORECAST_DAYS", 4)
	if err != nil {
		return nil, err
	}
	radius, err := envFloat("LIGHTNING_RADIUS_KM", 500)
	if err != nil {
		return nil, err
	}

	comfort, err := loadComfort()
	if err != nil {
		return nil, err
	}

	weatherInterval, err := envDuration("WEATHER_INTERVAL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	lightningInterval, err := envDuration("LIGHTNING_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fmiTimeout, err := envDuration("FMI_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := envDuration("MAPBOX_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	mapboxCacheSize, err := envInt("MAPBOX_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		Name:                envOrDefault("NAME", "FMI"),
		Latitude:            lat,
		Longitude:           lon,
		ForecastOffsetHours: offset,
		ForecastDays:        forecastDays,
		DailyMode:           envBool("DAILY_MODE"),
		LightningEnabled:    envBool("LIGHTNING_SENSOR"),
		LightningRadiusKM:   radius,
		Comfort:             comfort,
		WeatherInterval:     weatherInterval,
		LightningInterval:   lightningInterval,
		HTTPAddr:            envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		FMIBaseURL:          envOrDefault("FMI_BASE_URL", "https://opendata.fmi.fi/wfs"),
		FMITimeout:          fmiTimeout,
		MapboxToken:         mapboxToken,
		MapboxEnabled:       mapboxEnabled,
		MapboxTimeout:       mapboxTimeout,
		MapboxCacheSize:     mapboxCacheSize,
		KafkaBrokers:        parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaStateTopic:     envOrDefault("KAFKA_STATE_TOPIC", "weather-entity-states"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check", f.Field(), f.Tag())
		}
		return err
	}

	// Cross-field checks the struct tags cannot express.
	bounds := []struct {
		name     string
		min, max float64
	}{
		{"temperature", c.Comfort.MinTemperature, c.Comfort.MaxTemperature},
		{"humidity", c.Comfort.MinHumidity, c.Comfort.MaxHumidity},
		{"wind speed", c.Comfort.MinWindSpeed, c.Comfort.MaxWindSpeed},
		{"precipitation", c.Comfort.MinPrecipitation, c.Comfort.MaxPrecipitation},
	}
	for _, b := range bounds {
		if b.min > b.max {
			return fmt.Errorf("%s bounds inverted: min %g > max %g", b.name, b.min, b.max)
		}
	}
	if c.Comfort.MinHumidity < 0 || c.Comfort.MaxHumidity > 100 {
		return errors.New("humidity bounds must lie within [0, 100]")
	}

	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if c.KafkaEnabled() && c.KafkaStateTopic == "" {
		return errors.New("KAFKA_STATE_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func loadComfort() (domain.ComfortPreference, error) {
	var pref domain.ComfortPreference
	fields := []struct {
		env string
		dst *float64
		def float64
	}{
		{"MIN_TEMPERATURE", &pref.MinTemperature, defaultMinTemperature},
		{"MAX_TEMPERATURE", &pref.MaxTemperature, defaultMaxTemperature},
		{"MIN_HUMIDITY", &pref.MinHumidity, defaultMinHumidity},
		{"MAX_HUMIDITY", &pref.MaxHumidity, defaultMaxHumidity},
		{"MIN_WIND_SPEED", &pref.MinWindSpeed, defaultMinWindSpeed},
		{"MAX_WIND_SPEED", &pref.MaxWindSpeed, defaultMaxWindSpeed},
		{"MIN_PRECIPITATION", &pref.MinPrecipitation, defaultMinPrecipitation},
		{"MAX_PRECIPITATION", &pref.MaxPrecipitation, defaultMaxPrecipitation},
	}
	for _, f := range fields {
		v, err := envFloat(f.env, f.def)
		if err != nil {
			return domain.ComfortPreference{}, err
		}
		*f.dst = v
	}
	return pref, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	return os.Getenv(key) == "true"
}

func requireFloat(key string) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a number", key, s)
	}
	return v, nil
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a number", key, s)
	}
	return v, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", key, s)
	}
	return v, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a duration", key, s)
	}
	return v, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
