package quakes

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/internal/logger"
)

// object is a JSON object whose members are decoded lazily, so one malformed
// member never fails its siblings.
type object map[string]json.RawMessage

// Decode turns a feed body into records. It never fails: invalid JSON or a
// non-object root yields an empty slice.
func Decode(text string) []domain.Earthquake {
	quakes, err := Parse(text)
	if err != nil {
		logger.WarnObj("earthquake feed decode failed", "decode_error", err.Error())
		return []domain.Earthquake{}
	}
	return quakes
}

// Parse is the strict form of Decode. It fails only when the root is not a
// JSON object; malformed features are skipped without error.
func Parse(text string) ([]domain.Earthquake, error) {
	var root object
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: root is null", ErrDecode)
	}

	features := root.getArray("features")
	quakes := make([]domain.Earthquake, 0, len(features))
	for _, raw := range features {
		feature, ok := asObject(raw)
		if !ok {
			continue
		}
		props, ok := feature.getObject("properties")
		if !ok {
			continue
		}
		quakes = append(quakes, domain.NewEarthquake(
			props.getFloat("mag"),
			props.getString("place"),
			props.getInt64("time"),
			props.getString("url"),
		))
	}
	return quakes, nil
}

func asObject(raw json.RawMessage) (object, bool) {
	var o object
	if err := json.Unmarshal(raw, &o); err != nil || o == nil {
		return nil, false
	}
	return o, true
}

// getArray returns the member as a slice of raw elements; anything but an array yields nil.
func (o object) getArray(key string) []json.RawMessage {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func (o object) getObject(key string) (object, bool) {
	raw, ok := o[key]
	if !ok {
		return nil, false
	}
	return asObject(raw)
}

// getFloat accepts a JSON number or a numeric string; anything else, including
// NaN and infinities, yields 0.
func (o object) getFloat(key string) float64 {
	raw, ok := o[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// getInt64 accepts an integer, a float (truncated) or a numeric string; otherwise 0.
func (o object) getInt64(key string) int64 {
	raw, ok := o[key]
	if !ok {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

// getString returns a string member as is and renders numbers and booleans
// as their JSON text. Null, objects and arrays give "".
func (o object) getString(key string) string {
	raw, ok := o[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}
