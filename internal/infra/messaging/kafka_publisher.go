package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storedash/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

const (
	EventTypeOrderPaid          = "order.paid"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// トピックに流すメッセージの外側
type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// テストで差し替える
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// 注文IDをキーにするので同じ注文のイベントは同じパーティションに入る
type KafkaOrderEventPublisher struct {
	w messageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
}

func NewKafkaOrderEventPublisher(w messageWriter) *KafkaOrderEventPublisher {
	return &KafkaOrderEventPublisher{w: w}
}

func (p *KafkaOrderEventPublisher) PublishOrderPaid(ctx context.Context, ev model.OrderPaidEvent) error {
	return p.publish(ctx, ev.OrderID, EventTypeOrderPaid, ev.PaidAt, ev)
}

func (p *KafkaOrderEventPublisher) PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChangedEvent) error {
	return p.publish(ctx, ev.OrderID, EventTypeOrderStatusChanged, ev.ChangedAt, ev)
}

func (p *KafkaOrderEventPublisher) publish(ctx context.Context, key, eventType string, at time.Time, data any) error {
	value, err := json.Marshal(envelope{Type: eventType, OccurredAt: at.UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Time:    at.UTC(),
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(eventType)}},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", eventType, err)
	}
	return nil
}

func (p *KafkaOrderEventPublisher) Close() error {
	return p.w.Close()
}

// KAFKA_BROKERSが無いとき用
type NoopOrderEventPublisher struct{}

func (NoopOrderEventPublisher) PublishOrderPaid(ctx context.Context, ev model.OrderPaidEvent) error {
	return nil
}

func (NoopOrderEventPublisher) PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChangedEvent) error {
	return nil
}
