package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/application/port"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
)

// KafkaPublisher emits reconciliation events to a single Kafka topic, keyed
// by customer id so events for one customer stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 5 * time.Second,
			RequiredAcks: kafka.RequireOne,
		},
		topic: topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt domain.ReconciliationEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode reconciliation event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.CustomerID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish reconciliation event: %w", err)
	}
	slog.Debug("reconciliation event published",
		slog.String("topic", p.topic),
		slog.String("customerId", evt.CustomerID),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ port.EventSink = (*KafkaPublisher)(nil)
