package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// annotationPattern pairs a matcher with the conversion of its submatches.
// Group 1 is always the whole time token and becomes the status label.
type annotationPattern struct {
	re       *regexp.Regexp
	duration func(m []string) (time.Duration, bool)
}

// annotationPatterns are tried in order and the first match wins. The
// "left" forms come first; the bare forms would otherwise shadow them.
var annotationPatterns = []annotationPattern{
	// "23min left", "23 min left"
	{re: regexp.MustCompile(`(?i)((\d+)\s*min)\s*left`), duration: minutesOnly},
	// "1h48m left"
	{re: regexp.MustCompile(`(?i)((\d+)h\s*(\d+)m)\s*left`), duration: hoursAndMinutes},
	// "2h left"
	{re: regexp.MustCompile(`(?i)((\d+)h)\s*left`), duration: hoursOnly},
	// "1h48m"
	{re: regexp.MustCompile(`(?i)((\d+)h\s*(\d+)m)`), duration: hoursAndMinutes},
	// "23min"
	{re: regexp.MustCompile(`(?i)((\d+)\s*min)`), duration: minutesOnly},
	// "2h"
	{re: regexp.MustCompile(`(?i)((\d+)h)`), duration: hoursOnly},
}

// ExtractAnnotation reads an informal time estimate from a free-text note.
// Any mention of "ready" or "now" wins over duration patterns. The boolean
// is false when the note carries no estimate, or one too large to represent.
func ExtractAnnotation(note string) (Status, bool) {
	lower := strings.ToLower(note)
	if strings.Contains(lower, "ready") || strings.Contains(lower, "now") {
		return readyStatus(), true
	}

	for _, p := range annotationPatterns {
		m := p.re.FindStringSubmatch(note)
		if m == nil {
			continue
		}
		d, ok := p.duration(m)
		if !ok {
			return Status{}, false
		}
		return Status{
			Label:     m[1],
			Category:  categoryFor(d),
			Remaining: d,
			Known:     true,
		}, true
	}
	return Status{}, false
}

func minutesOnly(m []string) (time.Duration, bool) {
	return annotationDuration("0", m[2])
}

func hoursOnly(m []string) (time.Duration, bool) {
	return annotationDuration(m[2], "0")
}

func hoursAndMinutes(m []string) (time.Duration, bool) {
	return annotationDuration(m[2], m[3])
}

func annotationDuration(hours, minutes string) (time.Duration, bool) {
	h, err := strconv.ParseInt(hours, 10, 64)
	if err != nil {
		return 0, false
	}
	mins, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil {
		return 0, false
	}
	return durationOf(h, mins)
}
