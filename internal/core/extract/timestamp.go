// Package extract locates and normalizes the overlay fields that survey
// camera apps burn into photos: a timestamp, a coordinate pair, and optional
// client hashtags. Every function here is a pure scan over recognized text;
// malformed candidates degrade to "not found", never to an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// A TimestampRule attempts to read one timestamp format out of recognized
// text. Rules are evaluated in priority order; the first match wins even if a
// later rule would also match.
type TimestampRule func(text string) (time.Time, bool)

var timestampRules = []TimestampRule{longFormTimestamp, slashFormTimestamp}

// monthPrefixes maps the pt-BR three-letter month abbreviations the overlay
// apps print ("12 de nov. de 2023") to calendar months.
var monthPrefixes = map[string]time.Month{
	"jan": time.January,
	"fev": time.February,
	"mar": time.March,
	"abr": time.April,
	"mai": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"set": time.September,
	"out": time.October,
	"nov": time.November,
	"dez": time.December,
}

var (
	// Day, optional "de", month token (optional period), optional "de",
	// four-digit year, anything, then HH:MM or HH:MM:SS.
	longFormRe = regexp.MustCompile(`(?is)\b(\d{1,2})\s*(?:de\s+)?([\p{L}]{3,})\.?\s*(?:de\s+)?(\d{4}).*?(\d{1,2}):(\d{2})(?::(\d{2}))?`)

	// DD/MM/YYYY with optional whitespace before the time.
	slashFormRe = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\s*(\d{1,2}):(\d{2})(?::(\d{2}))?`)

	// Tesseract reliably glues "de nov" together on the common overlay font.
	runTogetherNov = regexp.MustCompile(`(?i)denov`)
)

// Timestamp scans recognized text for a capture timestamp. Missing seconds
// default to :00. A candidate with out-of-range calendar fields (day 32,
// hour 25) is treated as no match, not as an error.
func Timestamp(text string) (time.Time, bool) {
	text = runTogetherNov.ReplaceAllString(text, "de nov")
	for _, rule := range timestampRules {
		if ts, ok := rule(text); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func longFormTimestamp(text string) (time.Time, bool) {
	m := longFormRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	token := strings.ToLower(m[2])
	if len(token) < 3 {
		return time.Time{}, false
	}
	month, ok := monthPrefixes[token[:3]]
	if !ok {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	return buildTimestamp(year, month, day, m[4], m[5], m[6])
}

func slashFormTimestamp(text string) (time.Time, bool) {
	m := slashFormRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	monthNum, _ := strconv.Atoi(m[2])
	if monthNum < 1 || monthNum > 12 {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])
	return buildTimestamp(year, time.Month(monthNum), day, m[4], m[5], m[6])
}

// buildTimestamp validates the numeric fields against the real calendar.
// time.Date normalizes overflow (Nov 32 becomes Dec 2), so a round-trip
// comparison catches out-of-range days.
func buildTimestamp(year int, month time.Month, day int, hh, mm, ss string) (time.Time, bool) {
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	second := 0
	if ss != "" {
		second, _ = strconv.Atoi(ss)
	}

	if day < 1 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	ts := time.Date(year, month, day, hour, minute, second, 0, time.Local)
	if ts.Day() != day || ts.Month() != month || ts.Year() != year {
		return time.Time{}, false
	}
	return ts, true
}
