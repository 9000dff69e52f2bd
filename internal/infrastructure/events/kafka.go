// Package events publishes settlement events for downstream accounting.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/application"
	"github.com/DanielPopoola/x402-gateway/internal/config"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishBatchTimeout bounds how long a settlement waits for batch-mates.
// kafka-go defaults to one second, which would sit on every paid request.
const publishBatchTimeout = 5 * time.Millisecond

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(cfg config.EventsConfig) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           publishBatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, cfg.Topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// PublishSettlement keys messages by payer so one payer's settlements stay ordered.
func (p *KafkaPublisher) PublishSettlement(ctx context.Context, event application.SettlementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Payer),
		Value: payload,
		Time:  event.SettledAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("payment.settled")},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
