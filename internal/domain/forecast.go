package domain

import "time"

// RatingInsufficientSnow is the upstream sentinel for a band that could not
// be assessed due to insufficient snow cover.
const RatingInsufficientSnow = -2

// AltitudeDanger is a single elevation-band assessment within a forecast.
// Rating 0 means no rated danger; 1-5 is the standard avalanche danger scale.
type AltitudeDanger struct {
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

// RawForecast is one entry of the shared advisory forecast list. Entries for
// every region arrive in a single payload and are filtered by RegionID.
type RawForecast struct {
	RegionID             int              `json:"regionId"`
	AltitudeDanger       []AltitudeDanger `json:"altitudeDanger"`
	Created              string           `json:"created"`
	ValidPeriod          string           `json:"validPeriod"` // "24hrs" or "48hrs"
	ImportantInformation string           `json:"importantInformation"`
}

// NormalizedForecast is the canonical per-region risk record derived from the
// raw forecast list. One per region per run; never persisted.
type NormalizedForecast struct {
	Location    string
	Level       int // headline danger level, always >= 0
	LevelText   string
	Description string
	Start       time.Time // zero when the created timestamp did not parse
	Expires     time.Time // zero when no expiry could be derived
	URL         string
}
