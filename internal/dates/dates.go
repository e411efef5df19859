// Package dates resolves natural-language and ISO date expressions
// against an explicit reference date. The reference date is always a
// parameter so resolution stays reproducible; nothing here reads the
// wall clock.
package dates

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable reports an expression no resolver rule matched.
// Callers treat it as "no date", not as a failure of the whole parse.
var ErrUnparseable = errors.New("unparseable date")

var weekdays = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// Resolve turns an expression into a calendar date relative to ref.
// Rules are tried in order: "today", "tomorrow", "eom", weekday names,
// month names, then general parsing (ISO YYYY-MM-DD and bare month-day
// such as "nov6"). A general-parse result strictly before ref rolls
// forward so the date always lands in the future; the rollover is
// applied at most once.
func Resolve(expr string, ref Date) (Date, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Date{}, ErrUnparseable
	}
	switch s {
	case "today":
		return ref, nil
	case "tomorrow":
		return ref.AddDays(1), nil
	case "eom":
		return EndOfMonth(ref), nil
	}
	if wd, ok := weekdays[s]; ok {
		ahead := int(wd - ref.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		return ref.AddDays(ahead), nil
	}
	if m, ok := months[s]; ok {
		year := ref.Year
		if m < ref.Month {
			year++
		}
		return EndOfMonth(New(year, m, 1)), nil
	}
	d, ok := parseCalendar(s, ref)
	if !ok {
		return Date{}, ErrUnparseable
	}
	if d.Before(ref) {
		d = New(ref.Year+1, d.Month, d.Day)
	}
	return d, nil
}

// parseCalendar handles explicit calendar forms: ISO 8601 and a bare
// month-day token like "nov6" or "feb05". Year defaults to the
// reference year when the input omits one.
func parseCalendar(s string, ref Date) (Date, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return New(t.Year(), t.Month(), t.Day()), true
	}
	i := 0
	for i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
		i++
	}
	if i == 0 || i == len(s) {
		return Date{}, false
	}
	m, ok := months[s[:i]]
	if !ok {
		return Date{}, false
	}
	day, err := strconv.Atoi(s[i:])
	if err != nil || day < 1 || day > daysIn(ref.Year, m) {
		return Date{}, false
	}
	return New(ref.Year, m, day), true
}

// EndOfMonth returns the last calendar day of d's month.
func EndOfMonth(d Date) Date {
	return New(d.Year, d.Month, daysIn(d.Year, d.Month))
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
