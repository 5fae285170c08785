package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// LightningDisplayLimit caps how many strikes are kept for display.
const LightningDisplayLimit = 5

// LightningObservation is a single lightning strike report.
type LightningObservation struct {
	Time         time.Time `json:"time"`
	Geo          Geo       `json:"geo"`
	DistanceKM   float64   `json:"distance_km"` // from the configured coordinates
	Place        string    `json:"place,omitempty"`
	Strikes      int       `json:"strikes"`       // flash multiplicity
	PeakCurrent  float64   `json:"peak_current"`  // kA
	CloudCover   float64   `json:"cloud_cover"`   // cloud indicator
	EllipseMajor float64   `json:"ellipse_major"` // accuracy ellipse major axis, km
}

// BoundingBox is a latitude/longitude rectangle.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// String renders the box in the lon-first order FMI WFS bbox parameters use.
func (b BoundingBox) String() string {
	return fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// Contains reports whether the coordinate lies inside the box (inclusive).
func (b BoundingBox) Contains(g Geo) bool {
	return g.Lat >= b.MinLat && g.Lat <= b.MaxLat &&
		g.Lon >= b.MinLon && g.Lon <= b.MaxLon
}

const earthRadiusKM = 6371

// BoundingBoxAround computes the box whose sides are halfSideKM from the
// center in each direction. Longitude spread widens with latitude because
// parallels shrink toward the poles.
func BoundingBoxAround(center Geo, halfSideKM float64) BoundingBox {
	lat := center.Lat * math.Pi / 180
	lon := center.Lon * math.Pi / 180

	parallelRadius := earthRadiusKM * math.Cos(lat)

	latMin := lat - halfSideKM/earthRadiusKM
	latMax := lat + halfSideKM/earthRadiusKM
	lonMin := lon - halfSideKM/parallelRadius
	lonMax := lon + halfSideKM/parallelRadius

	deg := func(rad float64) float64 { return rad * 180 / math.Pi }
	return BoundingBox{
		MinLat: deg(latMin),
		MinLon: deg(lonMin),
		MaxLat: deg(latMax),
		MaxLon: deg(lonMax),
	}
}

// DistanceKM returns the haversine great-circle distance between two points.
func DistanceKM(a, b Geo) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// SelectNearest picks the limit closest strikes, then reorders them most
// recent first for display. The input slice is not modified.
func SelectNearest(obs []LightningObservation, limit int) []LightningObservation {
	out := make([]LightningObservation, len(obs))
	copy(out, obs)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKM < out[j].DistanceKM
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.After(out[j].Time)
	})
	return out
}
