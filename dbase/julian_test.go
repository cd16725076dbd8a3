package dbase

import (
	"testing"
	"time"
)

func TestCivilJulianRoundTrip(t *testing.T) {
	cases := []struct {
		year, month, day int
	}{
		{2014, 4, 14},
		{1999, 3, 25},
		{1991, 4, 15},
		{2000, 1, 1},
		{1900, 1, 1},
		{2099, 12, 31},
	}
	for _, tc := range cases {
		jd := civilToJulian(tc.year, tc.month, tc.day)
		y, m, d := civilFromJulian(jd)
		if y != tc.year || m != tc.month || d != tc.day {
			t.Errorf("round trip %d-%02d-%02d: got %d-%02d-%02d (jd=%d)", tc.year, tc.month, tc.day, y, m, d, jd)
		}
	}
}

func TestCivilFromJulianKnownValue(t *testing.T) {
	// 2000-01-01 is Julian day 2451545.
	y, m, d := civilFromJulian(2451545)
	if y != 2000 || m != 1 || d != 1 {
		t.Errorf("civilFromJulian(2451545) = %d-%02d-%02d, want 2000-01-01", y, m, d)
	}
}

func TestDateRoundTrip(t *testing.T) {
	in := time.Date(1999, 3, 25, 0, 0, 0, 0, time.UTC)
	raw := encodeDate(in)
	if string(raw) != "19990325" {
		t.Fatalf("encodeDate = %q, want 19990325", raw)
	}
	out, ok := decodeDate(raw)
	if !ok {
		t.Fatal("decodeDate reported null for a non-blank frame")
	}
	if !out.Equal(in) {
		t.Errorf("decodeDate round trip = %v, want %v", out, in)
	}
}

func TestDecodeDateBlank(t *testing.T) {
	_, ok := decodeDate([]byte("        "))
	if ok {
		t.Error("decodeDate should report null for a blank frame")
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	in := time.Date(2014, 4, 14, 13, 5, 9, 0, time.UTC)
	jd, ms := encodeDateTime(in)
	out := decodeDateTime(jd, ms)
	if !out.Equal(in) {
		t.Errorf("datetime round trip = %v, want %v", out, in)
	}
}
