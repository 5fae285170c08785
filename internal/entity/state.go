// Package entity shapes weather and lightning data into the state documents
// a home automation platform expects: an entity id, a scalar state, and an
// attribute map.
package entity

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
)

// Attribution is attached to every entity the bridge produces.
const Attribution = "Weather data provided by FMI"

// StateUnavailable marks an entity whose measurement is missing upstream.
const StateUnavailable = "unavailable"

// State is one entity state document.
type State struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Slugify lowercases a place name and squashes every non-alphanumeric run
// into a single underscore, so "Helsinki, Finland" becomes "helsinki_finland".
func Slugify(name string) string {
	var b strings.Builder
	lastUnderscore := true // suppress a leading underscore
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// numState renders a measurement as an entity state string.
func numState(v *float64) string {
	if v == nil {
		return StateUnavailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func timeState(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func baseAttributes(extra map[string]any) map[string]any {
	attrs := map[string]any{"attribution": Attribution}
	for k, v := range extra {
		attrs[k] = v
	}
	return attrs
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func geoAttributes(g domain.Geo) map[string]any {
	return map[string]any{
		"latitude":  g.Lat,
		"longitude": g.Lon,
	}
}
