// Package queue is the fulfillment channel between the dialog front-end and
// the worker. Requests travel as single Kafka messages: a fixed marker body
// plus one typed header per request field.
package queue

import (
	"context"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
)

// DefaultTopic is the fulfillment request topic.
const DefaultTopic = "concierge.requests"

// MarkerBody distinguishes request messages from any other traffic that may
// share the topic.
const MarkerBody = "Restaurant slots"

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Producer publishes fulfillment requests.
type Producer struct {
	w *kafka.Writer
}

// NewProducer creates the request producer. Writes are synchronous so an
// enqueue failure surfaces to the dialog turn instead of disappearing.
func NewProducer() *Producer {
	broker := getenv("KAFKA_BROKER", "kafka:9092")
	topic := getenv("CONCIERGE_TOPIC", DefaultTopic)
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Enqueue hands one completed request to the queue. The email keys the
// message so repeat requests from one user land on one partition.
func (p *Producer) Enqueue(ctx context.Context, req model.FulfillmentRequest) error {
	msg := kafka.Message{
		Key:     []byte(req.Email),
		Value:   []byte(MarkerBody),
		Headers: EncodeRequest(req),
		Time:    time.Now(),
	}
	return p.w.WriteMessages(ctx, msg)
}

// Close flushes and releases the underlying writer.
func (p *Producer) Close() error {
	return p.w.Close()
}
