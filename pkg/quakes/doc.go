// Package quakes fetches the USGS earthquake GeoJSON feed and decodes it into
// domain.Earthquake records.
//
// Fetch, Decode and Load are total: any failure degrades to an empty result and
// is only visible in the logs. Query performs the same work but reports why a
// call produced nothing, through errors wrapping ErrInvalidURL, ErrNetwork,
// ErrStatus or ErrDecode.
package quakes
