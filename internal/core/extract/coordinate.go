package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rfarias/geocapture/internal/core/domain"
)

// CoordinateMatch is a located and normalized coordinate pair plus the raw
// substring as it appeared in the recognized text.
type CoordinateMatch struct {
	Coordinate domain.Coordinate
	Raw        string
}

// Latitude carries N/S; longitude carries E/W plus the localized L (leste)
// and O (oeste), and V which the recognizer regularly produces for W.
var coordPairRe = regexp.MustCompile(`(-?\d+[.,]\d+)([NSns])\s+(-?\d+[.,]\d+)([EWLOVewlov])`)

// Coordinates locates a decimal-degree coordinate pair in recognized text.
// The hemisphere letter only confirms the convention; the numeral's own sign
// is authoritative and the letter is never re-applied. A value outside
// ±90/±180 rejects the whole pair.
func Coordinates(text string) (CoordinateMatch, bool) {
	m := coordPairRe.FindStringSubmatch(text)
	if m == nil {
		return CoordinateMatch{}, false
	}

	lat, err := parseDegrees(m[1])
	if err != nil {
		return CoordinateMatch{}, false
	}
	lon, err := parseDegrees(m[3])
	if err != nil {
		return CoordinateMatch{}, false
	}

	c := domain.Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return CoordinateMatch{}, false
	}

	return CoordinateMatch{Coordinate: c, Raw: m[0]}, true
}

func parseDegrees(numeral string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(numeral, ",", "."), 64)
}
