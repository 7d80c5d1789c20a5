package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// kafkaWriter is the subset of *kafkago.Writer used by kafkaPublisher.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// kafkaPublisher produces one message per event to a Kafka topic.
type kafkaPublisher struct {
	id     string
	writer kafkaWriter
	log    Logger
}

func newKafkaPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Kafka == nil {
		return nil, fmt.Errorf("publisher %q missing kafka configuration", cfg.ID)
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &kafkaPublisher{id: cfg.ID, writer: w, log: ensureLogger(log)}, nil
}

func (k *kafkaPublisher) ID() string   { return k.id }
func (k *kafkaPublisher) Type() string { return TypeKafka }

func (k *kafkaPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := serializeMessage(evt)
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		k.log.ErrorObj("kafka publisher write failed", "publisher_kafka_error", map[string]any{
			"publisher_id": k.id,
			"error":        err.Error(),
		})
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (k *kafkaPublisher) Close() error {
	return k.writer.Close()
}

// serializeMessage keys the message by the record key so updates land on one partition.
func serializeMessage(evt Event) (kafkago.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(evt.Key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "feed_id", Value: []byte(evt.FeedID)},
			{Key: "collected_at", Value: []byte(evt.CollectedAt.Format(time.RFC3339))},
		},
	}, nil
}
