package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseAbsoluteTime parses the sheet's "HH:MM DD/MM/YYYY" layout (time
// first, day before month) in loc. It reports false instead of guessing when
// any component is missing, non-numeric or out of range.
func ParseAbsoluteTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	split := strings.IndexFunc(s, unicode.IsSpace)
	if split < 0 {
		return time.Time{}, false
	}
	timePart, datePart := s[:split], strings.TrimSpace(s[split:])

	hm, ok := splitInts(timePart, ":", 2)
	if !ok {
		return time.Time{}, false
	}
	dmy, ok := splitInts(datePart, "/", 3)
	if !ok {
		return time.Time{}, false
	}

	hour, minute := hm[0], hm[1]
	day, month, year := dmy[0], dmy[1], dmy[2]
	if hour > 23 || minute > 59 || year < 1 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), true
}

// ParseCooldown parses an "HH:MM" respawn interval. Hours may exceed 23.
func ParseCooldown(s string) (time.Duration, bool) {
	hm, ok := splitInts(strings.TrimSpace(s), ":", 2)
	if !ok || hm[1] > 59 {
		return 0, false
	}
	return durationOf(int64(hm[0]), int64(hm[1]))
}

// maxMinutes is the largest whole number of minutes a time.Duration holds.
const maxMinutes = math.MaxInt64 / int64(time.Minute)

// durationOf converts non-negative hours and minutes to a Duration, reporting
// false when the total does not fit.
func durationOf(hours, minutes int64) (time.Duration, bool) {
	if hours < 0 || minutes < 0 || minutes > maxMinutes || hours > (maxMinutes-minutes)/60 {
		return 0, false
	}
	return time.Duration(hours*60+minutes) * time.Minute, true
}

// splitInts splits s on sep into exactly n non-negative integers.
func splitInts(s, sep string, n int) ([]int, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
