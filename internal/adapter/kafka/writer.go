package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/boss-respawn-tracker/internal/config"
	"github.com/couchcryptid/boss-respawn-tracker/internal/domain"
)

// Writer publishes resolved boss statuses to a Kafka topic, one message per
// boss, after every successful refresh.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// statusMessage is the JSON value of a published status.
type statusMessage struct {
	domain.Event
	Status      string          `json:"status"`
	Category    domain.Category `json:"category"`
	RemainingMs *int64          `json:"remaining_ms"`
	RefreshedAt time.Time       `json:"refreshed_at"`
}

// NewWriter creates a Kafka producer for the configured status topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishStatuses writes every entry in a single WriteMessages call. Messages
// are keyed by boss name so a compacted topic keeps the latest status.
func (w *Writer) PublishStatuses(ctx context.Context, entries []domain.Entry, refreshedAt time.Time) error {
	if len(entries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(entries))
	for i := range entries {
		msg, err := serializeToMessage(entries[i], refreshedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write status messages: %w", err)
	}
	w.logger.Debug("statuses published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(entry domain.Entry, refreshedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(statusMessage{
		Event:       entry.Event,
		Status:      entry.Status.Label,
		Category:    entry.Status.Category,
		RemainingMs: entry.Status.RemainingMs(),
		RefreshedAt: refreshedAt.UTC(),
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize status %q: %w", entry.Event.Name, err)
	}
	return kafkago.Message{
		Key:   []byte(entry.Event.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(entry.Event.Kind)},
			{Key: "category", Value: []byte(entry.Status.Category)},
			{Key: "refreshed_at", Value: []byte(refreshedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
