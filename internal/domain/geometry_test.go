package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validGeometry = `{"layers":[{"geometry":{"type":"Polygon","coordinates":[[[175.5,-39.0],[175.8,-39.0],[175.8,-39.3],[175.5,-39.3],[175.5,-39.0]]]}}]}`

func TestExtractPolygon(t *testing.T) {
	t.Run("well-formed polygon", func(t *testing.T) {
		coords, ok := ExtractPolygon(validGeometry)

		require.True(t, ok)
		require.Len(t, coords, 1)
		require.Len(t, coords[0], 5)
		assert.Equal(t, []float64{175.5, -39.0}, coords[0][0])
	})

	t.Run("only the first layer is read", func(t *testing.T) {
		raw := `{"layers":[
			{"geometry":{"type":"Polygon","coordinates":[[[1,2],[3,4],[1,2]]]}},
			{"geometry":{"type":"Polygon","coordinates":[[[9,9],[8,8],[9,9]]]}}
		]}`

		coords, ok := ExtractPolygon(raw)

		require.True(t, ok)
		assert.Equal(t, []float64{1, 2}, coords[0][0])
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"invalid JSON", `{"layers": [`},
		{"empty string", ""},
		{"missing layers", `{"name":"Tongariro"}`},
		{"empty layers array", `{"layers":[]}`},
		{"layer without geometry", `{"layers":[{"style":"solid"}]}`},
		{"wrong geometry type", `{"layers":[{"geometry":{"type":"Point","coordinates":[175.5,-39.0]}}]}`},
		{"missing coordinates", `{"layers":[{"geometry":{"type":"Polygon"}}]}`},
		{"empty coordinates", `{"layers":[{"geometry":{"type":"Polygon","coordinates":[]}}]}`},
		{"ill-shaped coordinates", `{"layers":[{"geometry":{"type":"Polygon","coordinates":[1,2,3]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords, ok := ExtractPolygon(tt.raw)
			assert.False(t, ok)
			assert.Nil(t, coords)
		})
	}
}
