// Command probe performs a one-shot fetch against the FMI open data WFS
// endpoint and prints the decoded results as JSON. Useful for checking
// connectivity, coordinates, and parameter coverage before deploying the
// bridge.
//
// Usage:
//
//	go run ./cmd/probe -lat 60.1699 -lon 24.9384 -hours 6 -lightning
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/fmi-weather-bridge/internal/adapter/fmi"
	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
)

func main() {
	lat := flag.Float64("lat", 0, "latitude of the point of interest (required)")
	lon := flag.Float64("lon", 0, "longitude of the point of interest (required)")
	hours := flag.Int("hours", 6, "forecast horizon in hours")
	baseURL := flag.String("base-url", "https://opendata.fmi.fi/wfs", "FMI WFS endpoint")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	lightning := flag.Bool("lightning", false, "also fetch lightning strikes")
	radius := flag.Float64("radius", 500, "lightning search radius in kilometers")
	window := flag.Duration("window", time.Hour, "lightning lookback window")
	flag.Parse()

	if *lat == 0 && *lon == 0 {
		fmt.Fprintln(os.Stderr, "both -lat and -lon are required")
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*lat, *lon, *hours, *baseURL, *timeout, *lightning, *radius, *window); code != 0 {
		os.Exit(code)
	}
}

func run(lat, lon float64, hours int, baseURL string, timeout time.Duration, withLightning bool, radiusKM float64, window time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := fmi.NewClient(fmi.Options{
		BaseURL: baseURL,
		Timeout: timeout,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	geo := domain.Geo{Lat: lat, Lon: lon}

	forecast, err := client.Forecast(ctx, geo, time.Duration(hours)*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: fetch forecast: %v\n", err)
		return 1
	}
	fmt.Printf("=== Forecast (%d records) ===\n", len(forecast))
	printJSON(forecast)

	obs, ok, err := client.LatestObservation(ctx, geo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: fetch observation: %v\n", err)
		return 1
	}
	if ok {
		fmt.Println("=== Latest observation ===")
		printJSON(obs)
	} else {
		fmt.Println("=== Latest observation: no data for this location ===")
	}

	if !withLightning {
		return 0
	}

	box := domain.BoundingBoxAround(geo, radiusKM)
	strikes, err := client.LightningStrikes(ctx, box, domain.Now().Add(-window))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: fetch lightning: %v\n", err)
		return 1
	}
	fmt.Printf("=== Lightning (%d strikes in bbox %s) ===\n", len(strikes), box)
	printJSON(strikes)
	return 0
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
	}
}
