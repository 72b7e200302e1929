// Package domain models New Zealand Avalanche Advisory (NZAA) forecast data.
//
// # Data Source
//
// Forecasts are published per backcountry region by the NZAA at
// https://www.avalanche.net.nz. Two endpoints are consumed each run:
//
//	GET /api/region/{id}  → region title, centroid, boundary geometry
//	GET /api/forecast     → the full current forecast list for all regions
//
// The forecast list is shared: entries carry a regionId and are filtered
// client-side. Upstream claims recency-first ordering within a region;
// normalization sorts matching entries by created time descending anyway so a
// misordered payload cannot surface a stale forecast.
//
// # Danger Ratings
//
// Each forecast carries an ordered list of altitude-band ratings. A band
// rating is an integer with domain {-2} ∪ [0, 5]:
//
//	-2   insufficient snow data (no assessment possible)
//	 0   no rated danger
//	 1   Low         5  Extreme
//
// The region's headline level is the maximum band rating strictly greater
// than zero. When no band rates above zero, the level stays 0 and the
// description falls back to the insufficient-snow band's text if one exists.
// [DangerLevelText] is total over all integers: unknown ratings map to a
// generic "Level N" label rather than failing the run.
//
// # Validity
//
// A forecast remains current for its validPeriod ("24hrs" or "48hrs") from
// its created timestamp. Anything other than "48hrs" is treated as 24 hours.
// The expiry becomes the feature's stale time.
//
// # Region Geometry
//
// The region endpoint returns boundary geometry as an opaque JSON string of
// the shape {"layers":[{"geometry":{"type":"Polygon","coordinates":[...]}}]}.
// Payloads are frequently partial or malformed; [ExtractPolygon] degrades to
// "no geometry" on any mismatch and the region renders point-only.
//
// # Output Conventions
//
// Features follow the map client's TAK-style property set: callsign, marker
// type, time/start/stale window, a newline-joined remarks block, and a link
// to the public advisory page. Point positions are [latitude, longitude],
// reversed from the GeoJSON [lon, lat] convention, because the downstream
// consumer positions markers that way. Preserved deliberately; do not "fix"
// without confirming with the consumer.
package domain
