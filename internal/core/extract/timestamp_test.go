package extract

import (
	"testing"
	"time"
)

func TestTimestamp_LongForm(t *testing.T) {
	ts, ok := Timestamp("Fazenda Alvorada 12 de nov. de 2023 14:33:07 GMT-03:00")
	if !ok {
		t.Fatal("expected a match")
	}
	want := time.Date(2023, time.November, 12, 14, 33, 7, 0, time.Local)
	if !ts.Equal(want) {
		t.Errorf("got %v, want %v", ts, want)
	}
}

func TestTimestamp_LongFormSecondsDefault(t *testing.T) {
	ts, ok := Timestamp("3 de mar de 2024 08:05")
	if !ok {
		t.Fatal("expected a match")
	}
	if ts.Second() != 0 {
		t.Errorf("missing seconds should default to :00, got %d", ts.Second())
	}
	if ts.Month() != time.March || ts.Day() != 3 {
		t.Errorf("got %v", ts)
	}
}

func TestTimestamp_SlashForm(t *testing.T) {
	ts, ok := Timestamp("GPS 12/11/2023 14:33")
	if !ok {
		t.Fatal("expected a match")
	}
	want := time.Date(2023, time.November, 12, 14, 33, 0, 0, time.Local)
	if !ts.Equal(want) {
		t.Errorf("got %v, want %v", ts, want)
	}
}

func TestTimestamp_LongFormWinsTieBreak(t *testing.T) {
	// Both forms present; the long form must win even though the slash form
	// appears first in the text.
	text := "01/01/2020 00:00 e 12 de nov. de 2023 14:33"
	ts, ok := Timestamp(text)
	if !ok {
		t.Fatal("expected a match")
	}
	if ts.Year() != 2023 || ts.Month() != time.November {
		t.Errorf("long form should take priority, got %v", ts)
	}
}

func TestTimestamp_RunTogetherRepair(t *testing.T) {
	ts, ok := Timestamp("12 denov. de 2023 14:33")
	if !ok {
		t.Fatal("denov should be repaired to de nov")
	}
	if ts.Month() != time.November {
		t.Errorf("got month %v", ts.Month())
	}
}

func TestTimestamp_UnknownMonthPrefix(t *testing.T) {
	if _, ok := Timestamp("12 de xyz de 2023 14:33"); ok {
		t.Error("unrecognized month prefix must not match")
	}
}

func TestTimestamp_CalendarRangeDowngrades(t *testing.T) {
	cases := []string{
		"32/01/2023 10:00",          // day 32
		"30/02/2023 10:00",          // Feb 30
		"12 de nov de 2023 25:00",   // hour 25
		"12 de nov de 2023 14:61",   // minute 61
	}
	for _, text := range cases {
		if _, ok := Timestamp(text); ok {
			t.Errorf("%q: out-of-range fields must report not found", text)
		}
	}
}

func TestTimestamp_NotFound(t *testing.T) {
	if _, ok := Timestamp("nenhuma data aqui"); ok {
		t.Error("expected no match")
	}
}

func TestTimestamp_LeapDay(t *testing.T) {
	if _, ok := Timestamp("29/02/2024 12:00"); !ok {
		t.Error("29 Feb 2024 is a valid date")
	}
	if _, ok := Timestamp("29/02/2023 12:00"); ok {
		t.Error("29 Feb 2023 is not a valid date")
	}
}
