package domain

import (
	"encoding/json"
	"strings"
)

// PolygonCoordinates is a GeoJSON Polygon coordinate array: linear rings of
// [lon, lat] positions.
type PolygonCoordinates [][][]float64

type geometryEnvelope struct {
	Layers []struct {
		Geometry json.RawMessage `json:"geometry"`
	} `json:"layers"`
}

type geometryNode struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ExtractPolygon unwraps layers[0].geometry from the opaque region geometry
// document. Malformed payloads are the common case, so every mismatch
// (invalid JSON, missing layers, a non-Polygon geometry type, absent or
// ill-shaped coordinates) returns false rather than an error. The region
// then degrades to point-only rendering.
func ExtractPolygon(raw string) (PolygonCoordinates, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}

	var envelope geometryEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, false
	}
	if len(envelope.Layers) == 0 || len(envelope.Layers[0].Geometry) == 0 {
		return nil, false
	}

	var node geometryNode
	if err := json.Unmarshal(envelope.Layers[0].Geometry, &node); err != nil {
		return nil, false
	}
	if node.Type != "Polygon" || len(node.Coordinates) == 0 {
		return nil, false
	}

	var coords PolygonCoordinates
	if err := json.Unmarshal(node.Coordinates, &coords); err != nil {
		return nil, false
	}
	if len(coords) == 0 {
		return nil, false
	}
	return coords, true
}
