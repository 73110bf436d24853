package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/boss-respawn-tracker/internal/domain"
	"github.com/couchcryptid/boss-respawn-tracker/internal/observability"
	"github.com/couchcryptid/boss-respawn-tracker/internal/tracker"
)

// Refresh triggers, used as the "trigger" metric label and in logs.
const (
	TriggerStartup = "startup"
	TriggerTimer   = "timer"
	TriggerManual  = "manual"
)

// ErrFetch wraps any failure to download the sheet. The previous event set
// stays in place when it is returned.
var ErrFetch = errors.New("fetch sheet")

// Fetcher downloads the raw sheet export.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Publisher receives the resolved statuses after each successful refresh.
type Publisher interface {
	PublishStatuses(ctx context.Context, entries []domain.Entry, refreshedAt time.Time) error
}

// Refresher runs the fetch-and-replace cycle, on a schedule and on demand.
// Fetch-and-swap cycles never overlap; publishing happens outside the lock.
type Refresher struct {
	fetcher   Fetcher
	tracker   *tracker.Tracker
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu    sync.Mutex
	ready atomic.Bool
}

// New creates a Refresher. publisher may be nil.
func New(f Fetcher, t *tracker.Tracker, p Publisher, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		fetcher:   f,
		tracker:   t,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the first refresh has succeeded.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("event set has not been loaded yet")
	}
	return nil
}

// RefreshOnce fetches the sheet and replaces the event set. On fetch failure
// the current set is kept and an error wrapping ErrFetch is returned.
// Publishing runs after the refresh lock is released; its failures are logged
// and counted but do not fail the refresh.
func (r *Refresher) RefreshOnce(ctx context.Context, trigger string) (tracker.RefreshResult, error) {
	result, err := r.refresh(ctx, trigger)
	if err != nil {
		return result, err
	}
	r.publish(ctx, result.UpdatedAt)
	return result, nil
}

// refresh performs the fetch and swap. Only one runs at a time.
func (r *Refresher) refresh(ctx context.Context, trigger string) (tracker.RefreshResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	raw, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.metrics.RefreshTotal.WithLabelValues(trigger, observability.OutcomeFetchError).Inc()
		r.logger.Error("sheet refresh failed, keeping previous event set",
			"trigger", trigger,
			"error", err,
		)
		return tracker.RefreshResult{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	result := r.tracker.Refresh(raw)
	r.metrics.RefreshTotal.WithLabelValues(trigger, observability.OutcomeSuccess).Inc()
	r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	r.metrics.LastRefreshSuccess.Set(float64(result.UpdatedAt.Unix()))
	r.metrics.EventsLoaded.Set(float64(result.Stats.Kept))
	r.metrics.RowsDropped.Add(float64(result.Stats.Dropped))
	r.ready.Store(true)

	r.logger.Info("sheet refreshed",
		"trigger", trigger,
		"events", result.Stats.Kept,
		"duration", time.Since(start),
	)
	return result, nil
}

func (r *Refresher) publish(ctx context.Context, refreshedAt time.Time) {
	if r.publisher == nil {
		return
	}
	entries, _ := r.tracker.Statuses()
	if err := r.publisher.PublishStatuses(ctx, entries, refreshedAt); err != nil {
		r.metrics.PublishErrors.Inc()
		r.logger.Warn("publish statuses failed", "error", err, "entries", len(entries))
		return
	}
	r.metrics.SnapshotsPublished.Add(float64(len(entries)))
}

// Run performs a startup refresh, then refreshes on schedule until ctx is
// cancelled. A scheduled refresh is skipped while the previous one is still
// running.
func (r *Refresher) Run(ctx context.Context, schedule string) error {
	cl := cronLogger{r.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(schedule, func() {
		_, _ = r.RefreshOnce(ctx, TriggerTimer)
	}); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", schedule, err)
	}

	r.logger.Info("refresher started", "schedule", schedule)
	_, _ = r.RefreshOnce(ctx, TriggerStartup)

	c.Start()
	<-ctx.Done()
	r.logger.Info("refresher stopping", "reason", ctx.Err())
	<-c.Stop().Done()
	return nil
}

// cronLogger routes cron's own logging into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
