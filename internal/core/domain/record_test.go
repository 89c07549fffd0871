package domain

import (
	"testing"
	"time"
)

func TestEquivalent_WithinTolerance(t *testing.T) {
	ts := time.Date(2023, 11, 12, 14, 33, 0, 0, time.UTC)
	a := CapturedRecord{Lat: -6.6386, Lon: -51.9896, Timestamp: ts}
	b := CapturedRecord{Lat: -6.63865, Lon: -51.98955, Timestamp: ts}

	if !Equivalent(a, b) {
		t.Error("records within 1e-4 degrees should be equivalent")
	}
}

func TestEquivalent_LatitudeBeyondTolerance(t *testing.T) {
	ts := time.Date(2023, 11, 12, 14, 33, 0, 0, time.UTC)
	a := CapturedRecord{Lat: -6.6386, Lon: -51.9896, Timestamp: ts}
	b := CapturedRecord{Lat: -6.6388, Lon: -51.9896, Timestamp: ts}

	if Equivalent(a, b) {
		t.Error("latitude delta of 2e-4 should not be equivalent")
	}
}

func TestEquivalent_DifferentTimestamp(t *testing.T) {
	a := CapturedRecord{Lat: -6.6386, Lon: -51.9896, Timestamp: time.Date(2023, 11, 12, 14, 33, 0, 0, time.UTC)}
	b := CapturedRecord{Lat: -6.6386, Lon: -51.9896, Timestamp: time.Date(2023, 11, 12, 14, 33, 1, 0, time.UTC)}

	if Equivalent(a, b) {
		t.Error("same spot at a different second is a distinct record")
	}
}

func TestCoordinateDisplay(t *testing.T) {
	c := Coordinate{Lat: -6.6386, Lon: -51.9896}
	want := "6.6386° S | 51.9896° W"
	if got := c.Display(); got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}

	c = Coordinate{Lat: 43.263, Lon: 2.935}
	want = "43.2630° N | 2.9350° E"
	if got := c.Display(); got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
}

func TestCoordinateValid(t *testing.T) {
	cases := []struct {
		c  Coordinate
		ok bool
	}{
		{Coordinate{Lat: -6.6386, Lon: -51.9896}, true},
		{Coordinate{Lat: 90, Lon: 180}, true},
		{Coordinate{Lat: 91, Lon: 0}, false},
		{Coordinate{Lat: 0, Lon: -181}, false},
	}
	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.ok {
			t.Errorf("Valid(%+v) = %v, want %v", tc.c, got, tc.ok)
		}
	}
}
