package extract

import (
	"fmt"
	"math"
	"testing"
)

func TestCoordinates_CommaSeparator(t *testing.T) {
	m, ok := Coordinates("alt 212m -6,6386S -51,9896W precisão 4m")
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Coordinate.Lat != -6.6386 || m.Coordinate.Lon != -51.9896 {
		t.Errorf("got %+v", m.Coordinate)
	}
	if m.Raw != "-6,6386S -51,9896W" {
		t.Errorf("raw = %q", m.Raw)
	}
}

func TestCoordinates_PeriodSeparator(t *testing.T) {
	m, ok := Coordinates("43.2630N 2.9350E")
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Coordinate.Lat != 43.263 || m.Coordinate.Lon != 2.935 {
		t.Errorf("got %+v", m.Coordinate)
	}
}

func TestCoordinates_LocalizedHemisphereLetters(t *testing.T) {
	// L (leste) and O (oeste) are accepted for the longitude axis.
	for _, text := range []string{"-6,6386s -51,9896o", "-6,6386S -51,9896L", "-6,6386S -51,9896v"} {
		if _, ok := Coordinates(text); !ok {
			t.Errorf("%q: expected a match", text)
		}
	}
}

func TestCoordinates_NumeralSignAuthoritative(t *testing.T) {
	// The letter confirms, the sign decides: a positive numeral with an S
	// letter stays positive.
	m, ok := Coordinates("6,6386S -51,9896W")
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Coordinate.Lat != 6.6386 {
		t.Errorf("lat = %v, the numeral's own sign must be kept", m.Coordinate.Lat)
	}
}

func TestCoordinates_OutOfRangeRejectsPair(t *testing.T) {
	for _, text := range []string{"91,0001N 10,0000E", "-91,0001S 10,0000E", "10,0000N 181,0001E", "10,0000N -181,0001W"} {
		if _, ok := Coordinates(text); ok {
			t.Errorf("%q: out-of-range value must reject the whole pair", text)
		}
	}
}

func TestCoordinates_NotFound(t *testing.T) {
	if _, ok := Coordinates("sem coordenadas nesta foto"); ok {
		t.Error("expected no match")
	}
}

func TestCoordinates_DisplayRoundTrip(t *testing.T) {
	// Formatting then re-locating a coordinate recovers the values to 1e-4.
	cases := []struct{ lat, lon float64 }{
		{-6.6386, -51.9896},
		{43.2630, 2.9350},
		{0.0001, 0.0001},
		{-89.9999, 179.9999},
	}
	for _, tc := range cases {
		// The overlay prints the signed numeral with a confirmatory letter,
		// e.g. "-6.6386S -51.9896W".
		latDir := "N"
		if tc.lat < 0 {
			latDir = "S"
		}
		lonDir := "E"
		if tc.lon < 0 {
			lonDir = "W"
		}
		text := fmt.Sprintf("%.4f%s %.4f%s", tc.lat, latDir, tc.lon, lonDir)

		m, ok := Coordinates(text)
		if !ok {
			t.Fatalf("%q: expected a match", text)
		}
		if math.Abs(m.Coordinate.Lat-tc.lat) >= 1e-4 || math.Abs(m.Coordinate.Lon-tc.lon) >= 1e-4 {
			t.Errorf("%q: round trip gave %v,%v", text, m.Coordinate.Lat, m.Coordinate.Lon)
		}
	}
}
