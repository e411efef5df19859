package dates

import (
	"errors"
	"testing"
	"time"
)

func TestResolveRelativeKeywords(t *testing.T) {
	ref := New(2025, time.November, 3) // a Monday
	cases := []struct {
		expr string
		want Date
	}{
		{"today", New(2025, time.November, 3)},
		{"tomorrow", New(2025, time.November, 4)},
		{"eom", New(2025, time.November, 30)},
		{"  tomorrow  ", New(2025, time.November, 4)},
		{"TODAY", New(2025, time.November, 3)},
	}
	for _, tc := range cases {
		got, err := Resolve(tc.expr, ref)
		if err != nil {
			t.Fatalf("Resolve(%q): unexpected error %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestResolveEomDecember(t *testing.T) {
	got, err := Resolve("eom", New(2025, time.December, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (New(2025, time.December, 31)) {
		t.Fatalf("eom in December = %s, want 2025-12-31", got)
	}
}

func TestResolveWeekdays(t *testing.T) {
	ref := New(2025, time.November, 3) // Monday
	cases := []struct {
		expr string
		want Date
	}{
		// Naming the reference date's own weekday is next week, never today.
		{"monday", New(2025, time.November, 10)},
		{"friday", New(2025, time.November, 7)},
		{"sunday", New(2025, time.November, 9)},
		{"wed", New(2025, time.November, 5)},
		{"Sat", New(2025, time.November, 8)},
	}
	for _, tc := range cases {
		got, err := Resolve(tc.expr, ref)
		if err != nil {
			t.Fatalf("Resolve(%q): unexpected error %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestResolveMonths(t *testing.T) {
	ref := New(2025, time.November, 3)
	cases := []struct {
		expr string
		want Date
	}{
		{"nov", New(2025, time.November, 30)},      // current month stays this year
		{"december", New(2025, time.December, 31)}, // future month this year
		{"october", New(2026, time.October, 31)},   // past month rolls to next year
		{"january", New(2026, time.January, 31)},
	}
	for _, tc := range cases {
		got, err := Resolve(tc.expr, ref)
		if err != nil {
			t.Fatalf("Resolve(%q): unexpected error %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestResolveMonthFebruaryLeapYears(t *testing.T) {
	got, err := Resolve("february", New(2024, time.January, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (New(2024, time.February, 29)) {
		t.Fatalf("february in 2024 = %s, want 2024-02-29", got)
	}
	got, err = Resolve("february", New(2025, time.January, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (New(2025, time.February, 28)) {
		t.Fatalf("february in 2025 = %s, want 2025-02-28", got)
	}
}

func TestResolveMonthDay(t *testing.T) {
	ref := New(2025, time.November, 3)
	cases := []struct {
		expr string
		want Date
	}{
		{"nov15", New(2025, time.November, 15)}, // future date stays this year
		{"nov1", New(2026, time.November, 1)},   // past date rolls forward once
		{"nov3", New(2025, time.November, 3)},   // the reference date itself stays today
		{"feb5", New(2026, time.February, 5)},
	}
	for _, tc := range cases {
		got, err := Resolve(tc.expr, ref)
		if err != nil {
			t.Fatalf("Resolve(%q): unexpected error %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestResolveISO(t *testing.T) {
	ref := New(2025, time.November, 3)
	got, err := Resolve("2025-12-25", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (New(2025, time.December, 25)) {
		t.Fatalf("Resolve(2025-12-25) = %s", got)
	}
	// A past ISO date rolls forward by exactly one year, never more.
	got, err = Resolve("2025-10-01", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (New(2026, time.October, 1)) {
		t.Fatalf("Resolve(2025-10-01) = %s, want 2026-10-01", got)
	}
}

func TestResolveUnparseable(t *testing.T) {
	ref := New(2025, time.November, 3)
	for _, expr := range []string{"not-a-date", "", "   ", "nov99", "13:30", "xyz6"} {
		if _, err := Resolve(expr, ref); !errors.Is(err, ErrUnparseable) {
			t.Fatalf("Resolve(%q): expected ErrUnparseable, got %v", expr, err)
		}
	}
}

func TestEndOfMonth(t *testing.T) {
	cases := []struct {
		in, want Date
	}{
		{New(2025, time.November, 15), New(2025, time.November, 30)},
		{New(2024, time.February, 15), New(2024, time.February, 29)},
		{New(2025, time.February, 15), New(2025, time.February, 28)},
		{New(2025, time.December, 15), New(2025, time.December, 31)},
	}
	for _, tc := range cases {
		if got := EndOfMonth(tc.in); got != tc.want {
			t.Fatalf("EndOfMonth(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := New(2025, time.November, 3)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-11-03"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip = %s, want %s", back, d)
	}
	var zero Date
	b, err = zero.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("zero marshal = %s, want null", b)
	}
}
