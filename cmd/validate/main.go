// Command validate performs integrity checks across the avalanche feed mock
// fixtures: region metadata, the raw forecast payload, and the published
// feature collection. It verifies geometry parseability, recomputes the feed
// output from the raw fixtures, and checks feature conventions.
//
// Usage:
//
//	go run ./cmd/validate -fixture-dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/avalanche-geofeed/internal/domain"
)

const mockSiteURL = "https://www.avalanche.net.nz"

const featureTimeLayout = "2006-01-02T15:04:05.000Z"

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixtureDir := flag.String("fixture-dir", "data/mock", "directory containing feed fixture files")
	flag.Parse()

	if code := run(*fixtureDir); code != 0 {
		os.Exit(code)
	}
}

func run(fixtureDir string) int {
	// Fixed clock matching genmock so recomputed timestamps line up.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.June, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Avalanche Feed Fixture Validation ===")
	fmt.Println()

	var regions []domain.Region
	if err := loadJSON(filepath.Join(fixtureDir, "regions.json"), &regions); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load regions fixture: %v\n", err)
		return 1
	}

	var forecastPayload struct {
		Forecasts []domain.RawForecast `json:"forecasts"`
	}
	if err := loadJSON(filepath.Join(fixtureDir, "forecasts.json"), &forecastPayload); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load forecasts fixture: %v\n", err)
		return 1
	}

	var collection domain.FeatureCollection
	if err := loadJSON(filepath.Join(fixtureDir, "features.json"), &collection); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load features fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateFixtureIntegrity(regions, forecastPayload.Forecasts),
		validateFeedRecompute(regions, forecastPayload.Forecasts, collection),
		validateFeatureConventions(regions, collection),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d regions, %d forecasts, %d features\n",
		len(regions), len(forecastPayload.Forecasts), len(collection.Features))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// ── Phase 1: Fixture Integrity ──
// Validates regions and forecasts are internally consistent.

func validateFixtureIntegrity(regions []domain.Region, forecasts []domain.RawForecast) *phase {
	p := &phase{name: "Phase 1: Fixture Integrity"}

	regionIDs := map[int]bool{}
	for i, r := range regions {
		if r.ID == 0 {
			p.errorf("region %d: missing id", i)
			continue
		}
		if regionIDs[r.ID] {
			p.errorf("region %d: duplicate id %d", i, r.ID)
		}
		regionIDs[r.ID] = true

		if r.Title == "" {
			p.errorf("region %d: missing title", r.ID)
		}
		if r.Latitude == 0 && r.Longitude == 0 {
			p.errorf("region %d: centroid is zero", r.ID)
		}
		if _, ok := domain.ExtractPolygon(r.RawGeometry); !ok {
			p.errorf("region %d: geometry does not parse to a polygon", r.ID)
		}
	}

	for i, f := range forecasts {
		if !regionIDs[f.RegionID] {
			p.errorf("forecast %d: references unknown region %d", i, f.RegionID)
		}
		if _, err := time.Parse(time.RFC3339, f.Created); err != nil {
			p.errorf("forecast %d: created %q is not RFC 3339", i, f.Created)
		}
	}
	return p
}

// ── Phase 2: Feed Recompute ──
// Re-runs normalization and assembly on the raw fixtures and compares the
// result with the published feature collection.

func validateFeedRecompute(regions []domain.Region, forecasts []domain.RawForecast, published domain.FeatureCollection) *phase {
	p := &phase{name: "Phase 2: Feed Recompute"}

	var expected []domain.Feature
	for _, region := range regions {
		forecast, ok := domain.Normalize(region, forecasts, mockSiteURL)
		if !ok {
			continue
		}
		polygon, _ := domain.ExtractPolygon(region.RawGeometry)
		expected = append(expected, domain.AssembleFeatures(region, forecast, polygon)...)
	}

	if len(expected) != len(published.Features) {
		p.errorf("feature count: recomputed %d, published %d", len(expected), len(published.Features))
		return p
	}

	for i := range expected {
		got := published.Features[i]
		want := expected[i]
		if got.ID != want.ID {
			p.errorf("feature %d: id: expected %q, got %q", i, want.ID, got.ID)
			continue
		}
		if !reflect.DeepEqual(got.Properties, want.Properties) {
			p.errorf("feature %s: properties mismatch:\n  expected %+v\n  got      %+v", got.ID, want.Properties, got.Properties)
		}
		if !geometryEq(got.Geometry, want.Geometry) {
			p.errorf("feature %s: geometry mismatch", got.ID)
		}
	}
	return p
}

// geometryEq compares geometries through a JSON round trip. The published
// fixture decodes coordinates as untyped values, so direct comparison of the
// Coordinates field would always fail.
func geometryEq(a, b domain.Geometry) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	var av, bv any
	if json.Unmarshal(aj, &av) != nil || json.Unmarshal(bj, &bv) != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}

// ── Phase 3: Feature Conventions ──
// Validates ids, styling, timestamps, and point placement.

func validateFeatureConventions(regions []domain.Region, published domain.FeatureCollection) *phase {
	p := &phase{name: "Phase 3: Feature Conventions"}

	regionByID := map[int]domain.Region{}
	for _, r := range regions {
		regionByID[r.ID] = r
	}

	for i := range published.Features {
		f := &published.Features[i]
		checkFeature(p, f, regionByID)
	}
	return p
}

func checkFeature(p *phase, f *domain.Feature, regions map[int]domain.Region) {
	if !strings.HasPrefix(f.ID, "avalanche-") {
		p.errorf("feature %q: id missing avalanche- prefix", f.ID)
		return
	}
	if f.Type != "Feature" {
		p.errorf("feature %s: type is %q", f.ID, f.Type)
	}
	if f.Properties.Type != "a-u-G" {
		p.errorf("feature %s: marker type is %q", f.ID, f.Properties.Type)
	}
	if f.Properties.Callsign == "" {
		p.errorf("feature %s: empty callsign", f.ID)
	}
	if _, err := time.Parse(featureTimeLayout, f.Properties.Time); err != nil {
		p.errorf("feature %s: time %q does not match layout", f.ID, f.Properties.Time)
	}

	checkValidity(p, f)

	if f.Geometry.Type == "" {
		p.errorf("feature %s: missing geometry", f.ID)
		return
	}

	if strings.HasSuffix(f.ID, "-center") {
		checkCenterPoint(p, f, regions)
		return
	}

	if f.Geometry.Type != "Polygon" {
		p.errorf("feature %s: expected Polygon geometry, got %q", f.ID, f.Geometry.Type)
	}
	if f.Properties.Stroke == "" || f.Properties.Fill == "" {
		p.errorf("feature %s: polygon missing stroke/fill styling", f.ID)
	}
}

// checkValidity verifies stale = start + 24h or 48h when both are present.
func checkValidity(p *phase, f *domain.Feature) {
	if f.Properties.Start == "" || f.Properties.Stale == "" {
		return
	}
	start, err1 := time.Parse(featureTimeLayout, f.Properties.Start)
	stale, err2 := time.Parse(featureTimeLayout, f.Properties.Stale)
	if err1 != nil || err2 != nil {
		p.errorf("feature %s: start/stale do not parse", f.ID)
		return
	}
	if d := stale.Sub(start); d != 24*time.Hour && d != 48*time.Hour {
		p.errorf("feature %s: validity window is %s, expected 24h or 48h", f.ID, d)
	}
}

// checkCenterPoint verifies the point carries the region centroid in
// latitude, longitude order.
func checkCenterPoint(p *phase, f *domain.Feature, regions map[int]domain.Region) {
	if f.Geometry.Type != "Point" {
		p.errorf("feature %s: expected Point geometry, got %q", f.ID, f.Geometry.Type)
		return
	}

	var regionID int
	idPart := strings.TrimSuffix(strings.TrimPrefix(f.ID, "avalanche-"), "-center")
	if _, err := fmt.Sscanf(idPart, "%d", &regionID); err != nil {
		p.errorf("feature %s: cannot extract region id", f.ID)
		return
	}
	region, ok := regions[regionID]
	if !ok {
		p.errorf("feature %s: unknown region %d", f.ID, regionID)
		return
	}

	coords, ok := f.Geometry.Coordinates.([]any)
	if !ok || len(coords) != 2 {
		p.errorf("feature %s: point coordinates are not a pair", f.ID)
		return
	}
	lat, okLat := coords[0].(float64)
	lon, okLon := coords[1].(float64)
	if !okLat || !okLon {
		p.errorf("feature %s: point coordinates are not numbers", f.ID)
		return
	}
	if lat != region.Latitude || lon != region.Longitude {
		p.errorf("feature %s: point [%g, %g] does not match centroid [%g, %g]",
			f.ID, lat, lon, region.Latitude, region.Longitude)
	}
}
