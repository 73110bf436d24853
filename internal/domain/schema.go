package domain

import (
	"errors"
	"fmt"
)

// FixedSentinel is the literal sheet value marking a boss on a fixed schedule.
const FixedSentinel = "Fixed"

// Schema maps sheet column positions to Event fields. Column indexes are
// zero-based and must all be below MinFields so that any row accepted by the
// builder can be read without bounds checks.
type Schema struct {
	Version   string `yaml:"version" json:"version"`
	MinFields int    `yaml:"min_fields" json:"min_fields"`

	Location         int `yaml:"location" json:"location"`
	Level            int `yaml:"level" json:"level"`
	Name             int `yaml:"name" json:"name"`
	LastOccurredTime int `yaml:"last_occurred_time" json:"last_occurred_time"`
	LastOccurredDate int `yaml:"last_occurred_date" json:"last_occurred_date"`
	Cooldown         int `yaml:"cooldown" json:"cooldown"`
	ScheduledTime    int `yaml:"scheduled_time" json:"scheduled_time"`
	ScheduledDate    int `yaml:"scheduled_date" json:"scheduled_date"`
	Annotation       int `yaml:"annotation" json:"annotation"`
	// ScheduleType holds FixedSentinel for fixed-schedule bosses. In both
	// published layouts it shares the last-killed time column.
	ScheduleType int `yaml:"schedule_type" json:"schedule_type"`
}

// SchemaV2 is the current nine-column sheet layout.
var SchemaV2 = Schema{
	Version:          "v2",
	MinFields:        9,
	Location:         0,
	Level:            1,
	Name:             2,
	LastOccurredTime: 3,
	LastOccurredDate: 4,
	Cooldown:         5,
	ScheduledTime:    6,
	ScheduledDate:    7,
	Annotation:       8,
	ScheduleType:     3,
}

// SchemaV1 is the older ten-column layout with the note in the last column.
var SchemaV1 = Schema{
	Version:          "v1",
	MinFields:        10,
	Location:         0,
	Level:            1,
	Name:             2,
	LastOccurredTime: 3,
	LastOccurredDate: 4,
	Cooldown:         5,
	ScheduledTime:    6,
	ScheduledDate:    7,
	Annotation:       9,
	ScheduleType:     3,
}

// DefaultSchema is used when no layout is configured.
var DefaultSchema = SchemaV2

// ErrUnknownSchema is returned for a schema version with no built-in layout.
var ErrUnknownSchema = errors.New("unknown sheet schema version")

// SchemaByVersion returns the built-in layout for the given version.
func SchemaByVersion(version string) (Schema, error) {
	switch version {
	case "", SchemaV2.Version:
		return SchemaV2, nil
	case SchemaV1.Version:
		return SchemaV1, nil
	default:
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownSchema, version)
	}
}

// Validate reports a schema whose columns cannot be read from a row of
// MinFields fields.
func (s Schema) Validate() error {
	if s.MinFields <= 0 {
		return fmt.Errorf("schema %q: min_fields must be positive", s.Version)
	}
	columns := []struct {
		name  string
		index int
	}{
		{"location", s.Location},
		{"level", s.Level},
		{"name", s.Name},
		{"last_occurred_time", s.LastOccurredTime},
		{"last_occurred_date", s.LastOccurredDate},
		{"cooldown", s.Cooldown},
		{"scheduled_time", s.ScheduledTime},
		{"scheduled_date", s.ScheduledDate},
		{"annotation", s.Annotation},
		{"schedule_type", s.ScheduleType},
	}
	for _, c := range columns {
		if c.index < 0 || c.index >= s.MinFields {
			return fmt.Errorf("schema %q: column %s index %d outside [0,%d)", s.Version, c.name, c.index, s.MinFields)
		}
	}
	return nil
}
