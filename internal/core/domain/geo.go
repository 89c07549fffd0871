package domain

import "fmt"

// Coordinate represents a geographic coordinate (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies within the supported ranges.
// Out-of-range values are rejected upstream, never clamped.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Display renders the coordinate the way survey camera apps burn it into
// photos: absolute values at 4 decimals with hemisphere letters,
// e.g. "6.6386° S | 51.9896° W".
func (c Coordinate) Display() string {
	latDir := "N"
	if c.Lat < 0 {
		latDir = "S"
	}
	lonDir := "E"
	if c.Lon < 0 {
		lonDir = "W"
	}
	lat, lon := c.Lat, c.Lon
	if lat < 0 {
		lat = -lat
	}
	if lon < 0 {
		lon = -lon
	}
	return fmt.Sprintf("%.4f° %s | %.4f° %s", lat, latDir, lon, lonDir)
}

// ClientSite is a known client location: a circular geofence plus display
// metadata. The site table is reference data, immutable per registry snapshot.
type ClientSite struct {
	Name         string     `json:"name" yaml:"name"`
	Center       Coordinate `json:"center" yaml:"center"`
	RadiusMeters float64    `json:"radius_meters" yaml:"radius_meters"`
	DisplayColor string     `json:"display_color" yaml:"display_color"`
}
