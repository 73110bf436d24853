// Package tracker owns the current boss snapshot and answers point-in-time
// queries against it.
package tracker

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/boss-respawn-tracker/internal/domain"
)

// ErrNotFound is returned when a name lookup matches no boss.
var ErrNotFound = errors.New("boss not found")

// Snapshot is one complete ingestion of the sheet. It is never modified
// after being published.
type Snapshot struct {
	Events      []domain.Event
	LastUpdated time.Time // zero before the first refresh
}

// RefreshResult describes a successful refresh.
type RefreshResult struct {
	Stats     domain.BuildStats
	UpdatedAt time.Time
}

// Tracker holds the event set behind an atomic pointer. Refresh swaps in a
// new snapshot; queries read whichever snapshot was current when they began.
type Tracker struct {
	schema    domain.Schema
	loc       *time.Location
	clock     clockwork.Clock
	nextCount int
	logger    *slog.Logger

	current atomic.Pointer[Snapshot]
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source used for queries and refresh timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLocation sets the zone sheet timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// WithNextCount sets the default size of Next.
func WithNextCount(n int) Option {
	return func(t *Tracker) { t.nextCount = n }
}

// New creates a Tracker with an empty snapshot.
func New(schema domain.Schema, logger *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		schema:    schema,
		loc:       time.Local,
		clock:     clockwork.NewRealClock(),
		nextCount: domain.DefaultNextCount,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.current.Store(&Snapshot{Events: []domain.Event{}})
	return t
}

// Snapshot returns the current event set.
func (t *Tracker) Snapshot() *Snapshot {
	return t.current.Load()
}

// Loaded reports whether at least one refresh has succeeded.
func (t *Tracker) Loaded() bool {
	return !t.Snapshot().LastUpdated.IsZero()
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Refresh parses raw as a full sheet export and replaces the event set.
// Short rows are dropped and counted; a header-only document yields an
// empty set.
func (t *Tracker) Refresh(raw []byte) RefreshResult {
	events, stats := domain.BuildEvents(string(raw), t.schema)
	now := t.clock.Now()
	t.current.Store(&Snapshot{Events: events, LastUpdated: now})

	t.logger.Info("event set replaced",
		"events", stats.Kept,
		"dropped_rows", stats.Dropped,
		"schema", t.schema.Version,
	)
	return RefreshResult{Stats: stats, UpdatedAt: now}
}

// StatusOf resolves a single event at the current time.
func (t *Tracker) StatusOf(ev domain.Event) domain.Status {
	return domain.Resolve(ev, t.clock.Now(), t.loc)
}

// Ready returns the regular bosses that can be fought now.
func (t *Tracker) Ready() ([]domain.Entry, *Snapshot) {
	snap := t.Snapshot()
	return domain.ReadySet(snap.Events, t.clock.Now(), t.loc), snap
}

// Next returns the n bosses due soonest. A non-positive n uses the
// configured default.
func (t *Tracker) Next(n int) ([]domain.Entry, *Snapshot) {
	if n <= 0 {
		n = t.nextCount
	}
	snap := t.Snapshot()
	return domain.NextUpcoming(snap.Events, n, t.clock.Now(), t.loc), snap
}

// FindByName returns the first boss whose name contains query, with its
// current status, or ErrNotFound.
func (t *Tracker) FindByName(query string) (domain.Entry, *Snapshot, error) {
	snap := t.Snapshot()
	ev, ok := domain.FindByName(snap.Events, query)
	if !ok {
		return domain.Entry{}, snap, ErrNotFound
	}
	return domain.Entry{Event: ev, Status: t.StatusOf(ev)}, snap, nil
}

// ListPage returns one page of the full listing; page is clamped into range.
func (t *Tracker) ListPage(page int) (domain.Page, *Snapshot) {
	snap := t.Snapshot()
	return domain.ListPage(snap.Events, page, t.clock.Now(), t.loc), snap
}

// Statuses resolves every event in the current snapshot, in sheet order.
func (t *Tracker) Statuses() ([]domain.Entry, *Snapshot) {
	snap := t.Snapshot()
	now := t.clock.Now()
	out := make([]domain.Entry, 0, len(snap.Events))
	for _, ev := range snap.Events {
		out = append(out, domain.Entry{Event: ev, Status: domain.Resolve(ev, now, t.loc)})
	}
	return out, snap
}
