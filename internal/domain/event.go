package domain

import "time"

// Kind distinguishes events with a computable countdown from those on an
// externally fixed schedule.
type Kind string

const (
	KindRegular Kind = "regular"
	KindFixed   Kind = "fixed"
)

// Category is the normalized classification of a Status.
type Category string

const (
	CategoryReady   Category = "ready"
	CategorySoon    Category = "soon" // under one hour remaining
	CategoryLong    Category = "long" // one hour or more remaining
	CategoryFixed   Category = "fixed"
	CategoryUnknown Category = "unknown"
)

// Status labels that are not derived from a duration.
const (
	LabelReady       = "READY NOW"
	LabelFixed       = "Fixed Schedule"
	LabelUnknown     = "Unknown"
	LabelInvalidDate = "Invalid Date"
)

// Event is one tracked boss row from the spreadsheet. Timestamps are kept as
// the raw sheet text; they are parsed on every resolution.
type Event struct {
	Location      string `json:"location"`
	Level         int    `json:"level"`
	Name          string `json:"name"`
	LastOccurred  string `json:"last_occurred,omitempty"`  // "HH:MM DD/MM/YYYY"
	Cooldown      string `json:"cooldown,omitempty"`       // "HH:MM"
	ScheduledTime string `json:"scheduled_time,omitempty"` // "HH:MM DD/MM/YYYY"
	Annotation    string `json:"annotation,omitempty"`
	Kind          Kind   `json:"kind"`
}

// Status is an Event evaluated against a point in time. It is never stored.
type Status struct {
	Label    string
	Category Category
	// Remaining is only meaningful when Known is true.
	Remaining time.Duration
	Known     bool
}

// RemainingMs returns the remaining time in milliseconds, or nil when no
// duration could be computed.
func (s Status) RemainingMs() *int64 {
	if !s.Known {
		return nil
	}
	ms := s.Remaining.Milliseconds()
	return &ms
}

// Entry pairs an event with its status at query time.
type Entry struct {
	Event  Event
	Status Status
}
