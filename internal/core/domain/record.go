package domain

import (
	"errors"
	"math"
	"time"
)

// TimestampLayout is the canonical formatted-timestamp layout used for
// persistence, dedup comparison, and replies.
const TimestampLayout = "02/01/2006 15:04:05"

// CoordTolerance is the degree tolerance under which two captures count as
// the same location for deduplication (roughly 11 m at the equator).
const CoordTolerance = 1e-4

// CapturedRecord is one validated extraction from a submitted photo.
// Records are immutable after insert; Seq is assigned by the store.
type CapturedRecord struct {
	Seq       int       `json:"seq"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
	Client    string    `json:"client,omitempty"`
}

// Coordinate returns the record's position.
func (r CapturedRecord) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lon: r.Lon}
}

// TimestampText returns the formatted timestamp used for equality checks.
func (r CapturedRecord) TimestampText() string {
	return r.Timestamp.Format(TimestampLayout)
}

// Equivalent reports whether two records describe the same capture under the
// dedup rule: both coordinate deltas under CoordTolerance and an identical
// formatted timestamp. This is deliberately looser than structural equality.
func Equivalent(a, b CapturedRecord) bool {
	return math.Abs(a.Lat-b.Lat) < CoordTolerance &&
		math.Abs(a.Lon-b.Lon) < CoordTolerance &&
		a.TimestampText() == b.TimestampText()
}

// CaptureStatus is the terminal state of one photo submission.
type CaptureStatus string

const (
	// StatusSuccess means a new record was stored and attributed to a client.
	StatusSuccess CaptureStatus = "success"
	// StatusDuplicate means an equivalent record already existed; nothing was stored.
	StatusDuplicate CaptureStatus = "duplicate"
	// StatusInvalid means the submission named exactly one client tag that is
	// not in the site table. Geofencing is deliberately not attempted.
	StatusInvalid CaptureStatus = "invalid"
	// StatusUnresolved means the record was stored but no client could be
	// attributed to it.
	StatusUnresolved CaptureStatus = "unresolved"
	// StatusNotFound means no usable coordinate/timestamp pair was recognized.
	StatusNotFound CaptureStatus = "not_found"
)

// CaptureResult is what the pipeline hands back to the transport layer.
type CaptureResult struct {
	Status CaptureStatus   `json:"status"`
	Record *CapturedRecord `json:"record,omitempty"`
	Client string          `json:"client,omitempty"`
	// RawCoordinates is the coordinate substring as it appeared in the
	// recognized text, kept for the reply.
	RawCoordinates string `json:"raw_coordinates,omitempty"`
}

// ErrUnknownClientTag is returned by the resolver when a single tag names a
// client that does not exist in the site table.
var ErrUnknownClientTag = errors.New("unknown client tag")
