package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/fmi-weather-bridge/internal/config"
	"github.com/couchcryptid/fmi-weather-bridge/internal/domain"
	"github.com/couchcryptid/fmi-weather-bridge/internal/entity"
)

// Publisher pushes entity state documents to a Kafka topic.
// It implements refresh.StatePublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured state topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaStateTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishStates serializes and publishes entity states in a single
// WriteMessages call. Messages are keyed by entity id so consumers see
// per-entity ordering.
func (p *Publisher) PublishStates(ctx context.Context, states []entity.State) error {
	if len(states) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(states))
	for i := range states {
		msg, err := serializeToMessage(states[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write entity states: %w", err)
	}
	p.logger.Debug("published entity states", "count", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an entity state into a Kafka message.
func serializeToMessage(state entity.State) (kafkago.Message, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize entity state: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(state.EntityID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("fmi-weather-bridge")},
			{Key: "published_at", Value: []byte(domain.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
