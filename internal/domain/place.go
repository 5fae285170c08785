package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// PlaceResolver names coordinates. Resolved names are cached per coordinate
// pair, rounded to placeKey's tolerance, for the resolver's lifetime: equal
// coordinates never trigger a second geocoder call. On geocoder failure or
// an empty result the name falls back to a formatted coordinate string,
// never an error.
//
// The resolver is instance-scoped state: create it at setup, drop it at
// teardown.
type PlaceResolver struct {
	geocoder Geocoder
	logger   *slog.Logger

	mu    sync.Mutex
	names map[string]string
}

// NewPlaceResolver creates a resolver around a geocoder. A nil geocoder is
// allowed; every lookup then yields the coordinate fallback.
func NewPlaceResolver(geocoder Geocoder, logger *slog.Logger) *PlaceResolver {
	return &PlaceResolver{
		geocoder: geocoder,
		logger:   logger,
		names:    make(map[string]string),
	}
}

// Resolve returns the place name for the coordinate pair.
func (r *PlaceResolver) Resolve(ctx context.Context, g Geo) string {
	key := placeKey(g)

	r.mu.Lock()
	name, ok := r.names[key]
	r.mu.Unlock()
	if ok {
		return name
	}

	name = r.lookup(ctx, g)

	r.mu.Lock()
	r.names[key] = name
	r.mu.Unlock()
	return name
}

func (r *PlaceResolver) lookup(ctx context.Context, g Geo) string {
	if r.geocoder == nil {
		return CoordinateName(g)
	}

	result, err := r.geocoder.ReverseGeocode(ctx, g.Lat, g.Lon)
	if err != nil {
		r.logger.Warn("reverse geocoding failed, using coordinate name",
			"lat", g.Lat,
			"lon", g.Lon,
			"error", err,
		)
		return CoordinateName(g)
	}
	if result.PlaceName != "" {
		return result.PlaceName
	}
	if result.FormattedAddress != "" {
		return result.FormattedAddress
	}
	return CoordinateName(g)
}

// CoordinateName formats coordinates as a display name, the fallback when
// geocoding is unavailable.
func CoordinateName(g Geo) string {
	return fmt.Sprintf("%.4f, %.4f", g.Lat, g.Lon)
}

// placeKey rounds coordinates to four decimal places (about 11 m), the
// tolerance inside which two coordinate pairs share one cached name.
func placeKey(g Geo) string {
	return fmt.Sprintf("%.4f,%.4f", g.Lat, g.Lon)
}
