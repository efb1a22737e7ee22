package utils

import (
	"testing"
	"time"
)

func TestNightsBetween(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2025, time.January, d, h, 0, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		in, out  time.Time
		expected int
	}{
		{"whole days", day(6, 0), day(9, 0), 3},
		{"partial day rounds up", day(6, 14), day(9, 11), 3},
		{"just over", day(6, 0), day(9, 1), 4},
		{"same instant", day(6, 0), day(6, 0), 0},
		{"inverted", day(9, 0), day(6, 0), 0},
	}
	for _, tt := range tests {
		if got := NightsBetween(tt.in, tt.out); got != tt.expected {
			t.Errorf("%s: NightsBetween = %d, want %d", tt.name, got, tt.expected)
		}
	}
}

func TestNightsBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	in := time.Date(2025, time.November, 1, 0, 0, 0, 0, loc)
	out := time.Date(2025, time.November, 3, 0, 0, 0, 0, loc)
	if got := NightsBetween(in, out); got != 2 {
		t.Errorf("NightsBetween across DST = %d, want 2", got)
	}
}

func TestInvoiceNumber(t *testing.T) {
	got := InvoiceNumber(42, time.Date(2025, time.March, 7, 18, 30, 0, 0, time.UTC))
	if got != "INV-42-20250307" {
		t.Errorf("InvoiceNumber = %q", got)
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("17"); !ok || id != 17 {
		t.Errorf("ParseID(17) = %d, %v", id, ok)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, ok := ParseID(bad); ok {
			t.Errorf("ParseID(%q) should fail", bad)
		}
	}
}

func TestStayBounds(t *testing.T) {
	from, to := StayBounds(
		time.Date(2025, time.January, 6, 15, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 8, 11, 0, 0, 0, time.UTC),
	)
	if from.Hour() != 0 || from.Day() != 6 {
		t.Errorf("from = %v", from)
	}
	if to.Hour() != 23 || to.Day() != 8 {
		t.Errorf("to = %v", to)
	}
}
