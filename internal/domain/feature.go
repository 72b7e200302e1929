package domain

import (
	"fmt"
	"strings"
)

// markerType is the fixed TAK marker tag shared by every emitted feature; the
// map client uses it to select the overlay class.
const markerType = "a-u-G"

// featureTimeLayout is the millisecond-precision UTC format the map client
// expects for time/start/stale properties.
const featureTimeLayout = "2006-01-02T15:04:05.000Z"

// Danger-level styling tables. Lookups are total: levels without an entry
// resolve to the level-0 entry, never to a missing value.
var levelColor = map[int]string{
	0: "#9e9e9e",
	1: "#50b848",
	2: "#fff200",
	3: "#f7941e",
	4: "#ed1c24",
	5: "#231f20",
}

var levelIcon = map[int]string{
	0: "https://www.avalanche.net.nz/img/icons/danger-no-rating.png",
	1: "https://www.avalanche.net.nz/img/icons/danger-low.png",
	2: "https://www.avalanche.net.nz/img/icons/danger-moderate.png",
	3: "https://www.avalanche.net.nz/img/icons/danger-considerable.png",
	4: "https://www.avalanche.net.nz/img/icons/danger-high.png",
	5: "https://www.avalanche.net.nz/img/icons/danger-extreme.png",
}

// ColorForLevel resolves the stroke/fill color for a danger level.
func ColorForLevel(level int) string {
	if c, ok := levelColor[level]; ok {
		return c
	}
	return levelColor[0]
}

// IconForLevel resolves the point marker icon for a danger level.
func IconForLevel(level int) string {
	if icon, ok := levelIcon[level]; ok {
		return icon
	}
	return levelIcon[0]
}

// Geometry is a GeoJSON geometry. Coordinates is []float64 for points and
// PolygonCoordinates for polygons.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// FeatureProperties is the TAK-style property block of an output feature.
// Styling fields are variant-specific: stroke/fill for polygons, icon for
// points.
type FeatureProperties struct {
	Callsign      string   `json:"callsign"`
	Type          string   `json:"type"`
	Time          string   `json:"time"`
	Start         string   `json:"start"`
	Stale         string   `json:"stale,omitempty"`
	Remarks       string   `json:"remarks"`
	Links         []string `json:"links"`
	Stroke        string   `json:"stroke,omitempty"`
	StrokeOpacity float64  `json:"stroke-opacity,omitempty"`
	StrokeWidth   int      `json:"stroke-width,omitempty"`
	StrokeStyle   string   `json:"stroke-style,omitempty"`
	FillOpacity   float64  `json:"fill-opacity,omitempty"`
	Fill          string   `json:"fill,omitempty"`
	Icon          string   `json:"icon,omitempty"`
}

// Feature is a single styled geographic object in the output collection.
type Feature struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Properties FeatureProperties `json:"properties"`
	Geometry   Geometry          `json:"geometry"`
}

// FeatureCollection is the submitted payload, built fresh per run.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection wraps features in a collection. A nil slice becomes an
// empty array so an all-regions-failed run still serializes as "features":[].
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// AssembleFeatures builds the styled output features for one region: a
// polygon when boundary geometry resolved, and always a point at the region
// centroid. Callers skip the region entirely (zero features) when region
// info or forecast is missing.
func AssembleFeatures(region Region, forecast NormalizedForecast, polygon PolygonCoordinates) []Feature {
	now := clock.Now().UTC()

	shared := FeatureProperties{
		Callsign: fmt.Sprintf("%s Avalanche Danger: %s", region.Title, forecast.LevelText),
		Type:     markerType,
		Time:     now.Format(featureTimeLayout),
		Start:    now.Format(featureTimeLayout),
		Links:    []string{forecast.URL},
	}
	if !forecast.Start.IsZero() {
		shared.Start = forecast.Start.UTC().Format(featureTimeLayout)
	}
	if !forecast.Expires.IsZero() {
		shared.Stale = forecast.Expires.UTC().Format(featureTimeLayout)
	}
	shared.Remarks = buildRemarks(shared.Callsign, forecast)

	features := make([]Feature, 0, 2)

	if len(polygon) > 0 {
		props := shared
		props.Stroke = ColorForLevel(forecast.Level)
		props.StrokeOpacity = 0.4
		props.StrokeWidth = 2
		props.StrokeStyle = "solid"
		props.Fill = props.Stroke
		props.FillOpacity = 0.4
		features = append(features, Feature{
			ID:         fmt.Sprintf("avalanche-%d", region.ID),
			Type:       "Feature",
			Properties: props,
			Geometry:   Geometry{Type: "Polygon", Coordinates: polygon},
		})
	}

	props := shared
	props.Icon = IconForLevel(forecast.Level)
	features = append(features, Feature{
		ID:         fmt.Sprintf("avalanche-%d-center", region.ID),
		Type:       "Feature",
		Properties: props,
		// The consumer positions markers on [lat, lon]; this ordering is
		// reversed from GeoJSON convention and preserved intentionally.
		Geometry: Geometry{Type: "Point", Coordinates: []float64{region.Latitude, region.Longitude}},
	})

	return features
}

// buildRemarks joins the human-readable summary lines shown in the marker
// detail pane. The valid-until line appears only when an expiry exists.
func buildRemarks(callsign string, forecast NormalizedForecast) string {
	lines := []string{
		callsign,
		"Location: " + forecast.Location,
		"Danger Level: " + forecast.LevelText,
		forecast.Description,
	}
	if !forecast.Start.IsZero() {
		lines = append(lines, "Issued: "+forecast.Start.UTC().Format(featureTimeLayout))
	}
	if !forecast.Expires.IsZero() {
		lines = append(lines, "Valid Until: "+forecast.Expires.UTC().Format(featureTimeLayout))
	}
	return strings.Join(lines, "\n")
}
