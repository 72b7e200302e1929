// Command genmock generates deterministic mock fixtures for the avalanche
// feed: region metadata, a raw forecast payload, and the feature collection
// the feed would publish for them. It uses the actual domain package so the
// expected output matches real feed behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/avalanche-geofeed/internal/domain"
)

const mockSiteURL = "https://www.avalanche.net.nz"

// createdAt is the fixed forecast issue time baked into the fixtures.
var createdAt = time.Date(2025, time.June, 14, 18, 0, 0, 0, time.UTC)

// regionSeed describes one mock advisory region.
type regionSeed struct {
	id     int
	title  string
	lat    float64
	lon    float64
	rating int  // highest altitude-band rating; domain.RatingInsufficientSnow allowed
	bands  bool // false leaves altitudeDanger empty
	issued bool // false omits the forecast entirely
}

var regionSeeds = []regionSeed{
	{id: 1, title: "Tongariro", lat: -39.13, lon: 175.64, rating: 3, bands: true, issued: true},
	{id: 2, title: "Taranaki", lat: -39.30, lon: 174.06, rating: 2, bands: true, issued: true},
	{id: 3, title: "Nelson Lakes", lat: -41.80, lon: 172.83, rating: 1, bands: true, issued: true},
	{id: 4, title: "Kaikoura", lat: -42.33, lon: 173.60, rating: domain.RatingInsufficientSnow, bands: true, issued: true},
	{id: 5, title: "Craigieburn", lat: -43.11, lon: 171.72, rating: 4, bands: true, issued: true},
	{id: 6, title: "Arthur's Pass", lat: -42.94, lon: 171.56, rating: 3, bands: true, issued: true},
	{id: 7, title: "Mt Hutt", lat: -43.47, lon: 171.53, rating: 0, bands: false, issued: true},
	{id: 8, title: "Two Thumbs", lat: -43.75, lon: 170.73, rating: 2, bands: true, issued: true},
	{id: 9, title: "Aoraki/Mt Cook", lat: -43.59, lon: 170.14, rating: 5, bands: true, issued: true},
	{id: 10, title: "Ohau", lat: -44.23, lon: 169.78, rating: 2, bands: true, issued: true},
	{id: 11, title: "Wanaka", lat: -44.47, lon: 168.81, rating: 3, bands: true, issued: true},
	{id: 12, title: "Queenstown", lat: -45.05, lon: 168.66, rating: 1, bands: true, issued: true},
	{id: 13, title: "Fiordland", lat: -45.42, lon: 167.72, issued: false},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/mock", "output directory for fixture files")
	flag.Parse()

	// Fixed clock for reproducible feature timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.June, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	regions := make([]domain.Region, 0, len(regionSeeds))
	var forecasts []domain.RawForecast
	for _, seed := range regionSeeds {
		regions = append(regions, buildRegion(seed))
		if seed.issued {
			forecasts = append(forecasts, buildForecast(seed))
		}
	}

	var features []domain.Feature
	for i, seed := range regionSeeds {
		region := regions[i]

		forecast, ok := domain.Normalize(region, forecasts, mockSiteURL)
		if !ok {
			log.Printf("%s: no forecast, zero features", seed.title)
			continue
		}

		polygon, ok := domain.ExtractPolygon(region.RawGeometry)
		if !ok {
			return fmt.Errorf("%s: generated geometry failed to parse", seed.title)
		}

		regionFeatures := domain.AssembleFeatures(region, forecast, polygon)
		features = append(features, regionFeatures...)
		log.Printf("%s: level %d, %d features", seed.title, forecast.Level, len(regionFeatures))
	}

	collection := domain.NewFeatureCollection(features)
	log.Printf("total: %d regions, %d forecasts, %d features", len(regions), len(forecasts), len(collection.Features))

	if err := writeJSON(filepath.Join(*outDir, "regions.json"), regions); err != nil {
		return fmt.Errorf("writing regions fixture: %w", err)
	}
	if err := writeJSON(filepath.Join(*outDir, "forecasts.json"), map[string]any{"forecasts": forecasts}); err != nil {
		return fmt.Errorf("writing forecasts fixture: %w", err)
	}
	if err := writeJSON(filepath.Join(*outDir, "features.json"), collection); err != nil {
		return fmt.Errorf("writing features fixture: %w", err)
	}

	printStats(collection)
	return nil
}

// buildRegion creates a region with a small box polygon around its centroid,
// wrapped in the layered geometry envelope the advisory API serves.
func buildRegion(seed regionSeed) domain.Region {
	box := [][]float64{
		{seed.lon - 0.2, seed.lat - 0.2},
		{seed.lon + 0.2, seed.lat - 0.2},
		{seed.lon + 0.2, seed.lat + 0.2},
		{seed.lon - 0.2, seed.lat + 0.2},
		{seed.lon - 0.2, seed.lat - 0.2},
	}
	envelope := map[string]any{
		"layers": []any{
			map[string]any{
				"geometry": map[string]any{
					"type":        "Polygon",
					"coordinates": [][][]float64{box},
				},
			},
		},
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		// Only plain maps and floats above, marshal cannot fail.
		panic(err)
	}

	return domain.Region{
		ID:          seed.id,
		Title:       seed.title,
		Latitude:    seed.lat,
		Longitude:   seed.lon,
		RawGeometry: string(raw),
	}
}

func buildForecast(seed regionSeed) domain.RawForecast {
	validPeriod := "24hrs"
	if seed.id%2 == 0 {
		validPeriod = "48hrs"
	}

	var bands []domain.AltitudeDanger
	if seed.bands {
		bands = []domain.AltitudeDanger{
			{Rating: seed.rating, Description: bandDescription(seed.rating)},
			{Rating: 0, Description: "Below the snow line"},
		}
	}

	return domain.RawForecast{
		RegionID:             seed.id,
		AltitudeDanger:       bands,
		Created:              createdAt.Format(time.RFC3339),
		ValidPeriod:          validPeriod,
		ImportantInformation: fmt.Sprintf("<p>Advisory for %s issued %s.</p>", seed.title, createdAt.Format("2 Jan 2006")),
	}
}

func bandDescription(rating int) string {
	if rating == domain.RatingInsufficientSnow {
		return "Insufficient snow for avalanche hazard"
	}
	return domain.DangerLevelText(rating) + " danger above the snow line"
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(collection domain.FeatureCollection) {
	var polygons, points int
	levelCounts := map[string]int{}
	for _, f := range collection.Features {
		switch f.Geometry.Type {
		case "Polygon":
			polygons++
			levelCounts[f.Properties.Fill]++
		case "Point":
			points++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total features: %d (polygons=%d, points=%d)\n", len(collection.Features), polygons, points)
	fmt.Printf("Polygon fill colors: %v\n", levelCounts)
	if len(collection.Features) > 0 {
		f := collection.Features[0]
		fmt.Printf("\nFirst feature:\n")
		fmt.Printf("  ID: %s\n", f.ID)
		fmt.Printf("  Callsign: %s\n", f.Properties.Callsign)
		fmt.Printf("  Time: %s\n", f.Properties.Time)
		fmt.Printf("  Stale: %s\n", f.Properties.Stale)
	}
}
