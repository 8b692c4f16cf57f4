// Package wallclock converts between "HH:MM" wall-clock strings, minute-of-day
// integers and date-anchored instants. All arithmetic wraps modulo one day.
package wallclock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerDay is the modulus for every wall-clock computation.
	MinutesPerDay = 24 * 60

	// DateLayout is the ISO calendar date used as a partition key.
	DateLayout = "2006-01-02"
)

// TimeToMinutes returns the minute-of-day for "HH:MM".
// Malformed input yields an unspecified value; use Valid to check first.
func TimeToMinutes(t string) int {
	hh, mm, _ := strings.Cut(t, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m
}

// MinutesToTime formats any integer, negative included, as "HH:MM" after
// normalizing it into [0, 1440).
func MinutesToTime(total int) string {
	n := ((total % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", n/60, n%60)
}

func AddMinutes(t string, delta int) string {
	return MinutesToTime(TimeToMinutes(t) + delta)
}

func SubtractMinutes(t string, delta int) string {
	return AddMinutes(t, -delta)
}

// Valid reports whether t is a well-formed "HH:MM" in [00:00, 23:59].
func Valid(t string) bool {
	if len(t) != 5 || t[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(t[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(t[3:])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}

// ParseTimeToDate combines a wall-clock time with a calendar date at local
// midnight in loc. An empty date means today. No zone conversion is applied.
func ParseTimeToDate(t, date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day := time.Now().In(loc)
	if date != "" {
		d, err := time.ParseInLocation(DateLayout, date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
		}
		day = d
	}
	m := TimeToMinutes(t)
	return time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc), nil
}

// Today returns the current ISO date in loc.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format(DateLayout)
}

// DateOf formats an instant as its ISO calendar date in loc.
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// NextDate returns the calendar day after date.
func NextDate(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return d.AddDate(0, 0, 1).Format(DateLayout), nil
}

// ValidDate reports whether date is an ISO "YYYY-MM-DD".
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
