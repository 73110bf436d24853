package domain

import (
	"fmt"
	"time"
)

// Resolve evaluates an event at now. Sources are consulted in fixed priority:
// the fixed-schedule marker, the free-text note, the scheduled respawn time,
// then last kill plus cooldown. Unparsable values fall through to the next
// source; the result is Unknown (or Invalid Date, when a timestamp was
// present but unreadable) if nothing yields a time.
func Resolve(ev Event, now time.Time, loc *time.Location) Status {
	if ev.Kind == KindFixed {
		return Status{Label: LabelFixed, Category: CategoryFixed}
	}

	if s, ok := ExtractAnnotation(ev.Annotation); ok {
		return s
	}

	invalid := false
	if ev.ScheduledTime != "" {
		if at, ok := ParseAbsoluteTime(ev.ScheduledTime, loc); ok {
			return countdown(at.Sub(now))
		}
		invalid = true
	}

	if ev.LastOccurred != "" && ev.Cooldown != "" {
		last, okLast := ParseAbsoluteTime(ev.LastOccurred, loc)
		cooldown, okCooldown := ParseCooldown(ev.Cooldown)
		if okLast && okCooldown {
			return countdown(last.Add(cooldown).Sub(now))
		}
		invalid = true
	}

	if invalid {
		return Status{Label: LabelInvalidDate, Category: CategoryUnknown}
	}
	return Status{Label: LabelUnknown, Category: CategoryUnknown}
}

// countdown classifies the time left until a respawn.
func countdown(diff time.Duration) Status {
	if diff <= 0 {
		return readyStatus()
	}
	return Status{
		Label:     FormatRemaining(diff),
		Category:  categoryFor(diff),
		Remaining: diff,
		Known:     true,
	}
}

// FormatRemaining renders d as "<h>h <m>m <s>s", truncating each unit.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

func readyStatus() Status {
	return Status{Label: LabelReady, Category: CategoryReady, Known: true}
}

func categoryFor(d time.Duration) Category {
	if d < time.Hour {
		return CategorySoon
	}
	return CategoryLong
}
