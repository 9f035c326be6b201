// Package stream publishes order lifecycle events to Kafka so fulfillment
// tooling and notification consumers can react to status changes. The whole
// package is disabled unless KAFKA_BROKERS is set; the marketplace works
// without a broker.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"uzhavan/models"
)

const (
	TopicOrderCreated       = "order-created"
	TopicOrderStatusUpdated = "order-status-updated"
)

// OrderEvent is the wire payload for both topics.
type OrderEvent struct {
	OrderID    string             `json:"order_id"`
	CustomerID string             `json:"customer_id"`
	Status     models.OrderStatus `json:"status"`
	Total      float64            `json:"total"`
	At         time.Time          `json:"at"`
}

var (
	brokers       []string
	createdWriter *kafka.Writer
	statusWriter  *kafka.Writer
)

// Init wires the writers when KAFKA_BROKERS is set (comma-separated).
func Init() {
	raw := os.Getenv("KAFKA_BROKERS")
	if raw == "" {
		log.Println("stream: KAFKA_BROKERS unset, order events disabled")
		return
	}
	brokers = strings.Split(raw, ",")
	createdWriter = newWriter(TopicOrderCreated)
	statusWriter = newWriter(TopicOrderStatusUpdated)
	log.Printf("stream: publishing order events to %v", brokers)
}

func Enabled() bool { return len(brokers) > 0 }

func newWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}

// EmitOrderCreated publishes a creation event; failures are logged, never
// surfaced, since the order is already committed.
func EmitOrderCreated(ctx context.Context, order models.Order) {
	emit(ctx, createdWriter, order)
}

// EmitOrderStatus publishes a status-change event.
func EmitOrderStatus(ctx context.Context, order models.Order) {
	emit(ctx, statusWriter, order)
}

func emit(ctx context.Context, w *kafka.Writer, order models.Order) {
	if w == nil {
		return
	}
	ev := OrderEvent{
		OrderID:    order.OrderID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Total:      order.TotalAmount,
		At:         time.Now(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("stream: marshal order event: %v", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(order.OrderID),
		Value: data,
		Time:  ev.At,
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		log.Printf("stream: write %s: %v", w.Topic, err)
	}
}

// StartNotificationWorker consumes status updates and logs a delivery notice
// per event. Runs until ctx is cancelled.
func StartNotificationWorker(ctx context.Context) {
	if !Enabled() {
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   TopicOrderStatusUpdated,
		GroupID: "uzhavan-notifications",
	})
	defer reader.Close()

	log.Println("stream: notification worker waiting for order events")
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("stream: read order event: %v", err)
			continue
		}
		var ev OrderEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Printf("stream: bad order event: %v", err)
			continue
		}
		log.Printf("stream: order %s for %s is now %s", ev.OrderID, ev.CustomerID, ev.Status)
	}
}

// Close flushes and closes the writers.
func Close() {
	for _, w := range []*kafka.Writer{createdWriter, statusWriter} {
		if w != nil {
			w.Close()
		}
	}
}
