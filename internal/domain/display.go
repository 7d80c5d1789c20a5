package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// LocationSeparator splits "12km SE of Mexico City" into offset and location.
	LocationSeparator = " of "
	// DefaultOffset is shown when the place has no explicit offset.
	DefaultOffset = "Near the"

	dateLayout = "Jan 02, 2006"
	timeLayout = "3:04 PM"
)

var magnitudeColors = [...]string{
	"#4A7BA7", // 0-1
	"#04B4B3", // 2
	"#10CAC9", // 3
	"#F5A623", // 4
	"#FF7D50", // 5
	"#FC6644", // 6
	"#E75F40", // 7
	"#E13A20", // 8
	"#D93218", // 9
	"#C03823", // 10+
}

// Display is the human-facing rendering of an Earthquake.
type Display struct {
	Magnitude string `json:"magnitude"`
	Bucket    int    `json:"bucket"`
	Color     string `json:"color"`
	Offset    string `json:"offset"`
	Location  string `json:"location"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// NewDisplay renders q in the given location (time.Local when nil).
func NewDisplay(q Earthquake, loc *time.Location) Display {
	offset, location := SplitPlace(q.Place)
	return Display{
		Magnitude: FormatMagnitude(q.Magnitude),
		Bucket:    MagnitudeBucket(q.Magnitude),
		Color:     MagnitudeColor(q.Magnitude),
		Offset:    offset,
		Location:  location,
		Date:      FormatDate(q.Time, loc),
		Time:      FormatTime(q.Time, loc),
	}
}

// MagnitudeBucket floors the magnitude into the 1..10 colour scale.
func MagnitudeBucket(mag float64) int {
	if math.IsNaN(mag) {
		return 1
	}
	floor := math.Floor(mag)
	switch {
	case floor <= 1:
		return 1
	case floor >= 10:
		return 10
	default:
		return int(floor)
	}
}

// MagnitudeColor returns the hex colour for the magnitude's bucket.
func MagnitudeColor(mag float64) string {
	return magnitudeColors[MagnitudeBucket(mag)-1]
}

// FormatMagnitude renders one decimal place.
func FormatMagnitude(mag float64) string {
	return strconv.FormatFloat(mag, 'f', 1, 64)
}

// SplitPlace separates "12km SE of Mexico City" into ("12km SE of ", "Mexico City").
func SplitPlace(place string) (offset, location string) {
	if before, after, ok := strings.Cut(place, LocationSeparator); ok {
		return before + LocationSeparator, after
	}
	return DefaultOffset, place
}

// FormatDate renders the date part, e.g. "May 30, 2014".
func FormatDate(ms int64, loc *time.Location) string {
	return inLocation(ms, loc).Format(dateLayout)
}

// FormatTime renders the wall-clock part, e.g. "3:04 PM".
func FormatTime(ms int64, loc *time.Location) string {
	return inLocation(ms, loc).Format(timeLayout)
}

func inLocation(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}
