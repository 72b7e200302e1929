package domain

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"
)

// noRatingDescription is the placeholder used when a forecast has neither a
// positive band rating nor an insufficient-snow band.
const noRatingDescription = "No rating available"

// markupRe matches HTML/markup tags embedded in upstream advisory text.
var markupRe = regexp.MustCompile(`<[^>]*>`)

// Normalize derives the canonical risk record for a region from the shared
// forecast list. The bool result is false when the list holds no entry for
// the region; that is the expected no-data outcome, not an error.
func Normalize(region Region, forecasts []RawForecast, siteURL string) (NormalizedForecast, bool) {
	matches := make([]RawForecast, 0, 2)
	for _, f := range forecasts {
		if f.RegionID == region.ID {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		return NormalizedForecast{}, false
	}

	// Upstream claims recency-first ordering. RFC 3339 UTC strings sort
	// lexically in chronological order, so a stable sort on the raw created
	// field keeps pre-sorted input unchanged while guarding against a
	// misordered payload surfacing a stale forecast.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Created > matches[j].Created
	})
	current := matches[0]

	level, bandDescription := maxBandRating(current.AltitudeDanger)

	description := bandDescription
	if info := strings.TrimSpace(current.ImportantInformation); info != "" {
		description = StripMarkup(info)
	}

	nf := NormalizedForecast{
		Location:    region.Title,
		Level:       level,
		LevelText:   DangerLevelText(level),
		Description: description,
		URL:         ForecastURL(siteURL, region.ID),
	}

	if created, err := time.Parse(time.RFC3339, current.Created); err == nil {
		nf.Start = created
		nf.Expires = created.Add(validityDuration(current.ValidPeriod))
	}

	return nf, true
}

// maxBandRating scans the altitude bands for the highest rating strictly
// greater than zero along with its description. When no band rates above
// zero, the insufficient-snow sentinel's description is used if present,
// else a fixed placeholder; the level stays 0 either way.
func maxBandRating(bands []AltitudeDanger) (int, string) {
	level := 0
	description := ""
	for _, band := range bands {
		if band.Rating > level {
			level = band.Rating
			description = band.Description
		}
	}
	if level > 0 {
		return level, description
	}

	for _, band := range bands {
		if band.Rating == RatingInsufficientSnow {
			return 0, band.Description
		}
	}
	return 0, noRatingDescription
}

// DangerLevelText maps a danger rating to its display label. Total over all
// integers: values outside the advisory domain fall through to a generic
// "Level N" label so a new upstream rating can never fail a run.
func DangerLevelText(level int) string {
	switch level {
	case RatingInsufficientSnow:
		return "Insufficient Snow"
	case 0:
		return "No Rating"
	case 1:
		return "Low (1)"
	case 2:
		return "Moderate (2)"
	case 3:
		return "Considerable (3)"
	case 4:
		return "High (4)"
	case 5:
		return "Extreme (5)"
	default:
		return fmt.Sprintf("Level %d", level)
	}
}

// validityDuration converts the upstream validPeriod enum to a duration.
// Anything other than "48hrs" is treated as 24 hours.
func validityDuration(validPeriod string) time.Duration {
	if validPeriod == "48hrs" {
		return 48 * time.Hour
	}
	return 24 * time.Hour
}

// StripMarkup removes embedded markup tags from advisory text, resolves HTML
// entities, and trims surrounding whitespace.
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(markupRe.ReplaceAllString(s, "")))
}
