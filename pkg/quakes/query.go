package quakes

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the USGS FDSN event query endpoint.
const DefaultBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"

// Params narrows the feed query.
type Params struct {
	MinMagnitude float64
	Limit        int
	OrderBy      string
}

// DefaultParams mirrors the classic "recent M3+ earthquakes" list: 20 newest events.
func DefaultParams() Params {
	return Params{
		MinMagnitude: 3,
		Limit:        20,
		OrderBy:      "time",
	}
}

// BuildURL composes a GeoJSON earthquake query against base.
// A zero Limit omits the limit parameter; an empty OrderBy defaults to "time".
func BuildURL(base string, p Params) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if p.Limit < 0 {
		return "", fmt.Errorf("limit must not be negative, got %d", p.Limit)
	}

	orderBy := strings.TrimSpace(p.OrderBy)
	if orderBy == "" {
		orderBy = "time"
	}

	q := u.Query()
	q.Set("format", "geojson")
	q.Set("eventtype", "earthquake")
	q.Set("orderby", orderBy)
	q.Set("minmag", strconv.FormatFloat(p.MinMagnitude, 'f', -1, 64))
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	u.RawQuery = encodeOrdered(q)

	return u.String(), nil
}

var queryOrder = []string{"format", "eventtype", "orderby", "minmag", "limit"}

// encodeOrdered keeps the well-known parameters in their documented order and
// appends any others sorted, which url.Values.Encode would otherwise shuffle.
func encodeOrdered(q url.Values) string {
	var b strings.Builder
	write := func(k string, vs []string) {
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	for _, k := range queryOrder {
		write(k, q[k])
		q.Del(k)
	}
	if rest := q.Encode(); rest != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(rest)
	}
	return b.String()
}
