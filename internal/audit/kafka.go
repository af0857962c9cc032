package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink forwards audit events to a Kafka topic, keyed by application ID
// so one application's trail stays ordered within a partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func NewKafkaSink(brokers []string, topic string, logger *slog.Logger) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic, logger: logger}, nil
}

// Publish produces asynchronously; delivery failures are logged, never
// surfaced, since audit forwarding is best effort on top of the store.
func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(event.ApplicationID),
		Value: value,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.Error("audit event produce failed",
				"topic", s.topic,
				"application_id", event.ApplicationID,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes outstanding records and releases the client.
func (s *KafkaSink) Close() {
	s.client.Flush(context.Background())
	s.client.Close()
}
