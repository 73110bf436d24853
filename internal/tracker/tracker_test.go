package tracker_test

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/boss-respawn-tracker/internal/domain"
	"github.com/couchcryptid/boss-respawn-tracker/internal/tracker"
)

var testNow = time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)

const testSheet = `Map,Level,Boss,Killed Time,Killed Date,Cooldown,Respawn Time,Respawn Date,Note
Lava Cave,85,Flame Lord,10:00,05/06/2024,04:00,,,
Ice Field,60,Frost Queen,Fixed,,,,,
Swamp,40,Bog Witch,,,,,,ready
Quarry,55,Stone Golem,,,,12:20,05/06/2024,
Desert,70,Sand Worm,,,,,,1h48m left
broken row`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTracker(clock clockwork.Clock) *tracker.Tracker {
	return tracker.New(domain.SchemaV2, discardLogger(),
		tracker.WithClock(clock),
		tracker.WithLocation(time.UTC),
	)
}

func TestTracker_EmptyBeforeRefresh(t *testing.T) {
	tr := newTracker(clockwork.NewFakeClockAt(testNow))

	assert.False(t, tr.Loaded())
	assert.True(t, tr.Snapshot().LastUpdated.IsZero())

	ready, _ := tr.Ready()
	assert.Empty(t, ready)
	next, _ := tr.Next(0)
	assert.Empty(t, next)
	page, _ := tr.ListPage(1)
	assert.Equal(t, 1, page.Pages)
	_, _, err := tr.FindByName("flame")
	require.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestTracker_RefreshAndQuery(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	tr := newTracker(clock)

	res := tr.Refresh([]byte(testSheet))
	assert.Equal(t, 5, res.Stats.Kept)
	assert.Equal(t, 1, res.Stats.Dropped)
	assert.Equal(t, testNow, res.UpdatedAt)
	assert.True(t, tr.Loaded())
	assert.Equal(t, testNow, tr.Snapshot().LastUpdated)

	ready, snap := tr.Ready()
	require.Len(t, ready, 1)
	assert.Equal(t, "Bog Witch", ready[0].Event.Name)
	assert.Equal(t, testNow, snap.LastUpdated)

	next, _ := tr.Next(0)
	require.Len(t, next, 2)
	assert.Equal(t, "Stone Golem", next[0].Event.Name)
	assert.Equal(t, "0h 20m 0s", next[0].Status.Label)
	assert.Equal(t, "Sand Worm", next[1].Event.Name)
	assert.Equal(t, "1h48m", next[1].Status.Label)

	entry, _, err := tr.FindByName("frost")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryFixed, entry.Status.Category)

	page, _ := tr.ListPage(0)
	assert.Equal(t, 1, page.Number)
	assert.Len(t, page.Entries, 5)

	all, _ := tr.Statuses()
	require.Len(t, all, 5)
	assert.Equal(t, "2h 0m 0s", all[0].Status.Label)
}

func TestTracker_QueriesFollowClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	tr := newTracker(clock)
	tr.Refresh([]byte(testSheet))

	clock.Advance(30 * time.Minute)

	ready, _ := tr.Ready()
	assert.Len(t, ready, 2, "Stone Golem respawned at 12:20")

	entry, _, err := tr.FindByName("flame")
	require.NoError(t, err)
	assert.Equal(t, "1h 30m 0s", entry.Status.Label)
	assert.Equal(t, entry.Status, tr.StatusOf(entry.Event))
}

func TestTracker_NextCountOption(t *testing.T) {
	tr := tracker.New(domain.SchemaV2, discardLogger(),
		tracker.WithClock(clockwork.NewFakeClockAt(testNow)),
		tracker.WithLocation(time.UTC),
		tracker.WithNextCount(3),
	)
	tr.Refresh([]byte(testSheet))

	next, _ := tr.Next(0)
	assert.Len(t, next, 3)
	next, _ = tr.Next(1)
	assert.Len(t, next, 1)
}

func TestTracker_RefreshReplacesWholeSet(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	tr := newTracker(clock)
	tr.Refresh([]byte(testSheet))
	before := tr.Snapshot()

	clock.Advance(5 * time.Minute)
	tr.Refresh([]byte("Map,Level,Boss\n"))

	after := tr.Snapshot()
	assert.Empty(t, after.Events)
	assert.Equal(t, testNow.Add(5*time.Minute), after.LastUpdated)
	assert.Len(t, before.Events, 5, "earlier snapshot is not mutated")
}

func TestTracker_ConcurrentReadsDuringRefresh(t *testing.T) {
	tr := newTracker(clockwork.NewFakeClockAt(testNow))
	small := strings.Join(strings.Split(testSheet, "\n")[:3], "\n")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				page, _ := tr.ListPage(1)
				// A reader sees either the small or the full set, never a mix.
				assert.Contains(t, []int{0, 2, 5}, page.Total)
			}
		}()
	}
	for j := 0; j < 100; j++ {
		if j%2 == 0 {
			tr.Refresh([]byte(testSheet))
		} else {
			tr.Refresh([]byte(small))
		}
	}
	wg.Wait()
}
