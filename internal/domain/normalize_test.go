package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSiteURL = "https://www.avalanche.net.nz"

var testRegion = Region{
	ID:        1,
	Title:     "Tongariro",
	Latitude:  -39.13,
	Longitude: 175.64,
}

func TestNormalize(t *testing.T) {
	t.Run("single positive band", func(t *testing.T) {
		forecasts := []RawForecast{{
			RegionID:       1,
			AltitudeDanger: []AltitudeDanger{{Rating: 3, Description: "Considerable"}},
			Created:        "2025-01-01T00:00:00Z",
			ValidPeriod:    "24hrs",
		}}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.Equal(t, "Tongariro", nf.Location)
		assert.Equal(t, 3, nf.Level)
		assert.Equal(t, "Considerable (3)", nf.LevelText)
		assert.Equal(t, "Considerable", nf.Description)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nf.Start)
		assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), nf.Expires)
		assert.Equal(t, "https://www.avalanche.net.nz/#/1", nf.URL)
	})

	t.Run("max rating wins across bands", func(t *testing.T) {
		forecasts := []RawForecast{{
			RegionID: 1,
			AltitudeDanger: []AltitudeDanger{
				{Rating: 2, Description: "Moderate below treeline"},
				{Rating: 4, Description: "High alpine"},
				{Rating: 1, Description: "Low valley floor"},
			},
			Created:     "2025-01-01T00:00:00Z",
			ValidPeriod: "24hrs",
		}}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.Equal(t, 4, nf.Level)
		assert.Equal(t, "High (4)", nf.LevelText)
		assert.Equal(t, "High alpine", nf.Description)
	})

	t.Run("no matching region", func(t *testing.T) {
		forecasts := []RawForecast{{RegionID: 9}}
		_, ok := Normalize(testRegion, forecasts, testSiteURL)
		assert.False(t, ok)
	})

	t.Run("empty forecast list", func(t *testing.T) {
		_, ok := Normalize(testRegion, nil, testSiteURL)
		assert.False(t, ok)
	})

	t.Run("insufficient snow band keeps level zero", func(t *testing.T) {
		forecasts := []RawForecast{{
			RegionID:       1,
			AltitudeDanger: []AltitudeDanger{{Rating: -2, Description: "Insufficient Snow data"}},
			Created:        "2025-01-01T00:00:00Z",
			ValidPeriod:    "24hrs",
		}}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.Equal(t, 0, nf.Level)
		assert.Equal(t, "No Rating", nf.LevelText)
		assert.Equal(t, "Insufficient Snow data", nf.Description)
	})

	t.Run("no bands at all", func(t *testing.T) {
		forecasts := []RawForecast{{
			RegionID:    1,
			Created:     "2025-01-01T00:00:00Z",
			ValidPeriod: "24hrs",
		}}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.Equal(t, 0, nf.Level)
		assert.Equal(t, "No rating available", nf.Description)
	})

	t.Run("zero-rated bands ignored during max scan", func(t *testing.T) {
		forecasts := []RawForecast{{
			RegionID: 1,
			AltitudeDanger: []AltitudeDanger{
				{Rating: 0, Description: "Nothing doing"},
				{Rating: 2, Description: "Moderate"},
			},
			Created:     "2025-01-01T00:00:00Z",
			ValidPeriod: "24hrs",
		}}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.Equal(t, 2, nf.Level)
		assert.Equal(t, "Moderate", nf.Description)
	})

	t.Run("48hr validity period", func(t *testing.T) {
		forecasts := []RawForecast{{
			RegionID:       1,
			AltitudeDanger: []AltitudeDanger{{Rating: 2, Description: "Moderate"}},
			Created:        "2025-06-15T09:30:00Z",
			ValidPeriod:    "48hrs",
		}}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 17, 9, 30, 0, 0, time.UTC), nf.Expires)
	})

	t.Run("most recent matching entry wins", func(t *testing.T) {
		forecasts := []RawForecast{
			{
				RegionID:       1,
				AltitudeDanger: []AltitudeDanger{{Rating: 1, Description: "Old"}},
				Created:        "2025-01-01T00:00:00Z",
				ValidPeriod:    "24hrs",
			},
			{
				RegionID:       1,
				AltitudeDanger: []AltitudeDanger{{Rating: 4, Description: "Fresh"}},
				Created:        "2025-01-03T00:00:00Z",
				ValidPeriod:    "24hrs",
			},
		}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.Equal(t, 4, nf.Level)
		assert.Equal(t, "Fresh", nf.Description)
	})

	t.Run("important information preferred and stripped", func(t *testing.T) {
		forecasts := []RawForecast{{
			RegionID:             1,
			AltitudeDanger:       []AltitudeDanger{{Rating: 3, Description: "Band text"}},
			Created:              "2025-01-01T00:00:00Z",
			ValidPeriod:          "24hrs",
			ImportantInformation: "  <p>Wind slabs on <b>southern</b> aspects.</p> ",
		}}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.Equal(t, "Wind slabs on southern aspects.", nf.Description)
	})

	t.Run("unparseable created leaves window zero", func(t *testing.T) {
		forecasts := []RawForecast{{
			RegionID:       1,
			AltitudeDanger: []AltitudeDanger{{Rating: 2, Description: "Moderate"}},
			Created:        "yesterday-ish",
			ValidPeriod:    "24hrs",
		}}

		nf, ok := Normalize(testRegion, forecasts, testSiteURL)

		require.True(t, ok)
		assert.True(t, nf.Start.IsZero())
		assert.True(t, nf.Expires.IsZero())
	})
}

func TestDangerLevelText(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		expected string
	}{
		{"insufficient snow", -2, "Insufficient Snow"},
		{"no rating", 0, "No Rating"},
		{"low", 1, "Low (1)"},
		{"moderate", 2, "Moderate (2)"},
		{"considerable", 3, "Considerable (3)"},
		{"high", 4, "High (4)"},
		{"extreme", 5, "Extreme (5)"},
		{"unknown positive", 7, "Level 7"},
		{"unknown negative", -1, "Level -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DangerLevelText(tt.level))
		})
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text untouched", "Fresh wind slabs.", "Fresh wind slabs."},
		{"tags removed", "<p>Heavy snowfall <br/>overnight.</p>", "Heavy snowfall overnight."},
		{"entities resolved", "Freeze&ndash;thaw &amp; refreeze", "Freeze–thaw & refreeze"},
		{"whitespace trimmed", "  spaced out \n", "spaced out"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripMarkup(tt.input))
		})
	}
}

func TestValidityDuration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, validityDuration("24hrs"))
	assert.Equal(t, 48*time.Hour, validityDuration("48hrs"))
	assert.Equal(t, 24*time.Hour, validityDuration(""))
	assert.Equal(t, 24*time.Hour, validityDuration("72hrs"))
}
