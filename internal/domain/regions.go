package domain

import "fmt"

// RegionIDs is the fixed catalog of NZAA forecast regions. Titles, centroids,
// and boundary geometry come from the region endpoint at runtime; only the
// IDs are stable.
var RegionIDs = []int{
	1,  // Tongariro
	2,  // Taranaki
	3,  // Nelson Lakes
	4,  // Kaikoura
	5,  // Craigieburn
	6,  // Arthur's Pass
	7,  // Mt Hutt
	8,  // Two Thumbs
	9,  // Aoraki/Mt Cook
	10, // Ohau
	11, // Wanaka
	12, // Queenstown
	13, // Fiordland
}

// Region is the per-region metadata returned by the region endpoint.
// Immutable once fetched; sourced fresh each run, never persisted.
type Region struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// RawGeometry is an opaque JSON document describing the region boundary.
	// See ExtractPolygon for the tolerated shape.
	RawGeometry string `json:"geometry"`
}

// ForecastURL returns the public advisory detail page for a region, used as
// the feature link target.
func ForecastURL(siteURL string, regionID int) string {
	return fmt.Sprintf("%s/#/%d", siteURL, regionID)
}
