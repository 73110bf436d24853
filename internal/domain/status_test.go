package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is 5 June 2024 12:00 UTC; sheet timestamps below are relative to it.
var testNow = time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		label     string
		category  Category
		remaining *time.Duration
	}{
		{
			name:     "fixed ignores everything else",
			event:    Event{Kind: KindFixed, Annotation: "ready", ScheduledTime: "13:00 05/06/2024"},
			label:    LabelFixed,
			category: CategoryFixed,
		},
		{
			name:      "ready note beats far future respawn",
			event:     Event{Kind: KindRegular, Annotation: "Ready", ScheduledTime: "12:00 05/06/2030"},
			label:     LabelReady,
			category:  CategoryReady,
			remaining: durationPtr(0),
		},
		{
			name:      "note estimate beats respawn time",
			event:     Event{Kind: KindRegular, Annotation: "23min left", ScheduledTime: "18:00 05/06/2024"},
			label:     "23min",
			category:  CategorySoon,
			remaining: durationPtr(23 * time.Minute),
		},
		{
			name:      "respawn time in the future",
			event:     Event{Kind: KindRegular, ScheduledTime: "14:30 05/06/2024"},
			label:     "2h 30m 0s",
			category:  CategoryLong,
			remaining: durationPtr(150 * time.Minute),
		},
		{
			name:      "respawn time under an hour",
			event:     Event{Kind: KindRegular, ScheduledTime: "12:45 05/06/2024"},
			label:     "0h 45m 0s",
			category:  CategorySoon,
			remaining: durationPtr(45 * time.Minute),
		},
		{
			name:      "respawn time passed",
			event:     Event{Kind: KindRegular, ScheduledTime: "11:00 05/06/2024"},
			label:     LabelReady,
			category:  CategoryReady,
			remaining: durationPtr(0),
		},
		{
			name:      "respawn time exactly now",
			event:     Event{Kind: KindRegular, ScheduledTime: "12:00 05/06/2024"},
			label:     LabelReady,
			category:  CategoryReady,
			remaining: durationPtr(0),
		},
		{
			name:      "last kill plus cooldown",
			event:     Event{Kind: KindRegular, LastOccurred: "11:00 05/06/2024", Cooldown: "01:30"},
			label:     "0h 30m 0s",
			category:  CategorySoon,
			remaining: durationPtr(30 * time.Minute),
		},
		{
			name:      "bad respawn falls through to cooldown",
			event:     Event{Kind: KindRegular, ScheduledTime: "bad input", LastOccurred: "10:00 05/06/2024", Cooldown: "04:00"},
			label:     "2h 0m 0s",
			category:  CategoryLong,
			remaining: durationPtr(2 * time.Hour),
		},
		{
			name:      "cooldown elapsed",
			event:     Event{Kind: KindRegular, LastOccurred: "08:00 05/06/2024", Cooldown: "02:00"},
			label:     LabelReady,
			category:  CategoryReady,
			remaining: durationPtr(0),
		},
		{
			name:     "bad respawn and nothing else",
			event:    Event{Kind: KindRegular, ScheduledTime: "bad input"},
			label:    LabelInvalidDate,
			category: CategoryUnknown,
		},
		{
			name:     "bad cooldown",
			event:    Event{Kind: KindRegular, LastOccurred: "08:00 05/06/2024", Cooldown: "soon"},
			label:    LabelInvalidDate,
			category: CategoryUnknown,
		},
		{
			name:     "last kill without cooldown",
			event:    Event{Kind: KindRegular, LastOccurred: "08:00 05/06/2024"},
			label:    LabelUnknown,
			category: CategoryUnknown,
		},
		{
			name:     "nothing known",
			event:    Event{Kind: KindRegular, Annotation: "bring potions"},
			label:    LabelUnknown,
			category: CategoryUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Resolve(tt.event, testNow, time.UTC)
			assert.Equal(t, tt.label, st.Label)
			assert.Equal(t, tt.category, st.Category)
			if tt.remaining == nil {
				assert.False(t, st.Known)
				assert.Nil(t, st.RemainingMs())
				return
			}
			require.True(t, st.Known)
			assert.Equal(t, *tt.remaining, st.Remaining)
			assert.Equal(t, tt.remaining.Milliseconds(), *st.RemainingMs())
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	ev := Event{Kind: KindRegular, ScheduledTime: "13:17 05/06/2024", LastOccurred: "10:00 05/06/2024", Cooldown: "01:00"}
	assert.Equal(t, Resolve(ev, testNow, time.UTC), Resolve(ev, testNow, time.UTC))
}

func TestResolve_CountsDownWithClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	ev := Event{Kind: KindRegular, ScheduledTime: "13:00 05/06/2024"}

	assert.Equal(t, CategoryLong, Resolve(ev, clock.Now(), time.UTC).Category)

	clock.Advance(30*time.Minute + 15*time.Second)
	st := Resolve(ev, clock.Now(), time.UTC)
	assert.Equal(t, CategorySoon, st.Category)
	assert.Equal(t, "0h 29m 45s", st.Label)

	clock.Advance(time.Hour)
	assert.Equal(t, CategoryReady, Resolve(ev, clock.Now(), time.UTC).Category)
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "0h 0m 0s", FormatRemaining(0))
	assert.Equal(t, "0h 0m 0s", FormatRemaining(-time.Minute))
	assert.Equal(t, "1h 1m 1s", FormatRemaining(time.Hour+time.Minute+time.Second+999*time.Millisecond))
	assert.Equal(t, "27h 0m 5s", FormatRemaining(27*time.Hour+5*time.Second))
}

func durationPtr(d time.Duration) *time.Duration { return &d }
