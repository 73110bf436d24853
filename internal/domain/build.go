package domain

import (
	"strconv"
	"strings"
)

// BuildStats summarizes one pass of the record builder.
type BuildStats struct {
	Rows    int // non-blank data rows seen
	Kept    int
	Dropped int // rows with fewer than Schema.MinFields fields
}

// BuildEvents converts a CSV document into events. The first line is a header
// and is always skipped; blank lines are ignored and short rows are dropped.
// Row order is preserved.
func BuildEvents(doc string, schema Schema) ([]Event, BuildStats) {
	var stats BuildStats
	lines := strings.Split(doc, "\n")
	if len(lines) <= 1 {
		return []Event{}, stats
	}

	events := make([]Event, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := ParseRow(line)
		if fields == nil {
			continue
		}
		stats.Rows++
		if len(fields) < schema.MinFields {
			stats.Dropped++
			continue
		}
		events = append(events, buildEvent(fields, schema))
		stats.Kept++
	}
	return events, stats
}

func buildEvent(fields []string, schema Schema) Event {
	kind := KindRegular
	if fields[schema.ScheduleType] == FixedSentinel {
		kind = KindFixed
	}
	return Event{
		Location:      fields[schema.Location],
		Level:         parseLevel(fields[schema.Level]),
		Name:          fields[schema.Name],
		LastOccurred:  joinTimestamp(fields[schema.LastOccurredTime], fields[schema.LastOccurredDate]),
		Cooldown:      fields[schema.Cooldown],
		ScheduledTime: joinTimestamp(fields[schema.ScheduledTime], fields[schema.ScheduledDate]),
		Annotation:    fields[schema.Annotation],
		Kind:          kind,
	}
}

// parseLevel returns the leading run of digits of s as an integer, or 0 when
// s does not start with a digit (this includes negative values).
func parseLevel(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}

// joinTimestamp combines the time and date columns into "time date". When
// the date is missing the time column is returned alone.
func joinTimestamp(timePart, datePart string) string {
	if timePart != "" && datePart != "" {
		return timePart + " " + datePart
	}
	return timePart
}
