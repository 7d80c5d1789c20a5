package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"strconv"
	"time"
)

// Domain contains core models and interfaces.

// Earthquake is one decoded feed entry. Values are never mutated after decode.
type Earthquake struct {
	Magnitude float64 `json:"magnitude"`
	Place     string  `json:"place"`
	Time      int64   `json:"time"` // epoch milliseconds
	URL       string  `json:"url"`
}

// NewEarthquake builds a record from already-extracted feed fields.
func NewEarthquake(magnitude float64, place string, timeMs int64, url string) Earthquake {
	return Earthquake{
		Magnitude: magnitude,
		Place:     place,
		Time:      timeMs,
		URL:       url,
	}
}

// OccurredAt converts the millisecond timestamp into a time.Time.
func (e Earthquake) OccurredAt() time.Time {
	return time.UnixMilli(e.Time)
}

// Key returns a stable identifier used for de-duplication across polls.
// The detail URL is unique per USGS event; records without one fall back to all fields.
func (e Earthquake) Key() string {
	src := e.URL
	if src == "" {
		src = strconv.FormatFloat(e.Magnitude, 'g', -1, 64) + "|" + e.Place + "|" + strconv.FormatInt(e.Time, 10)
	}
	sum := sha1.Sum([]byte(src))
	return hex.EncodeToString(sum[:])
}
