package domain

import (
	"testing"
	"time"
)

func TestMagnitudeBucket(t *testing.T) {
	cases := []struct {
		mag  float64
		want int
	}{
		{-0.4, 1},
		{0, 1},
		{1.9, 1},
		{2.0, 2},
		{4.99, 4},
		{5.4, 5},
		{9.9, 9},
		{10, 10},
		{12.3, 10},
	}
	for _, tc := range cases {
		if got := MagnitudeBucket(tc.mag); got != tc.want {
			t.Errorf("MagnitudeBucket(%v) = %d, want %d", tc.mag, got, tc.want)
		}
	}
}

func TestMagnitudeColor(t *testing.T) {
	if got := MagnitudeColor(1.2); got != "#4A7BA7" {
		t.Fatalf("unexpected colour for 1.2: %s", got)
	}
	if got := MagnitudeColor(5.4); got != "#FF7D50" {
		t.Fatalf("unexpected colour for 5.4: %s", got)
	}
	if got := MagnitudeColor(11); got != "#C03823" {
		t.Fatalf("unexpected colour for 11: %s", got)
	}
}

func TestFormatMagnitude(t *testing.T) {
	if got := FormatMagnitude(5.4); got != "5.4" {
		t.Fatalf("FormatMagnitude(5.4) = %q", got)
	}
	if got := FormatMagnitude(3); got != "3.0" {
		t.Fatalf("FormatMagnitude(3) = %q", got)
	}
	if got := FormatMagnitude(4.56); got != "4.6" {
		t.Fatalf("FormatMagnitude(4.56) = %q", got)
	}
}

func TestSplitPlace(t *testing.T) {
	offset, location := SplitPlace("12km SE of Mexico City")
	if offset != "12km SE of " || location != "Mexico City" {
		t.Fatalf("unexpected split %q / %q", offset, location)
	}

	offset, location = SplitPlace("Pacific-Antarctic Ridge")
	if offset != DefaultOffset || location != "Pacific-Antarctic Ridge" {
		t.Fatalf("unexpected split without separator %q / %q", offset, location)
	}

	offset, location = SplitPlace("5km N of Isle of Man")
	if offset != "5km N of " || location != "Isle of Man" {
		t.Fatalf("expected only the first separator to split, got %q / %q", offset, location)
	}
}

func TestFormatDateAndTime(t *testing.T) {
	const ms = 1401408000000 // 2014-05-30T00:00:00Z
	if got := FormatDate(ms, time.UTC); got != "May 30, 2014" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatTime(ms, time.UTC); got != "12:00 AM" {
		t.Fatalf("FormatTime = %q", got)
	}
}

func TestNewDisplay(t *testing.T) {
	q := NewEarthquake(5.4, "12km SE of Mexico City", 1401408000000, "http://x/1")
	d := NewDisplay(q, time.UTC)
	if d.Magnitude != "5.4" || d.Bucket != 5 || d.Color != "#FF7D50" {
		t.Fatalf("unexpected magnitude rendering %+v", d)
	}
	if d.Offset != "12km SE of " || d.Location != "Mexico City" {
		t.Fatalf("unexpected place rendering %+v", d)
	}
	if d.Date != "May 30, 2014" || d.Time != "12:00 AM" {
		t.Fatalf("unexpected time rendering %+v", d)
	}
}

func TestEarthquakeKey(t *testing.T) {
	a := NewEarthquake(5.4, "somewhere", 1, "http://x/1")
	b := NewEarthquake(2.0, "elsewhere", 2, "http://x/1")
	if a.Key() != b.Key() {
		t.Fatalf("records with the same url should share a key")
	}

	c := NewEarthquake(5.4, "somewhere", 1, "")
	d := NewEarthquake(5.4, "somewhere", 2, "")
	if c.Key() == d.Key() {
		t.Fatalf("records without url should be keyed by their fields")
	}
	if len(a.Key()) != 40 {
		t.Fatalf("expected sha1 hex key, got %q", a.Key())
	}
}

func TestOccurredAt(t *testing.T) {
	q := NewEarthquake(1, "", 1401408000000, "")
	want := time.Date(2014, time.May, 30, 0, 0, 0, 0, time.UTC)
	if !q.OccurredAt().Equal(want) {
		t.Fatalf("OccurredAt = %v, want %v", q.OccurredAt(), want)
	}
}
