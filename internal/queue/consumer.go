package queue

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Consumer pulls fulfillment requests one at a time with manual offset
// commits. A message is only committed after the worker finishes with it, so
// a crash or a delivery failure leaves it eligible for redelivery; the
// queue's own retry semantics are the sole retry strategy.
type Consumer struct {
	cfg kafka.ReaderConfig

	mu sync.Mutex
	r  *kafka.Reader
}

// NewConsumer creates a consumer in the worker group.
func NewConsumer() *Consumer {
	broker := getenv("KAFKA_BROKER", "kafka:9092")
	topic := getenv("CONCIERGE_TOPIC", DefaultTopic)
	return &Consumer{
		cfg: kafka.ReaderConfig{
			Brokers:  []string{broker},
			Topic:    topic,
			GroupID:  "concierge-worker",
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  time.Second,
		},
	}
}

func (c *Consumer) reader() *kafka.Reader {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.r == nil {
		c.r = kafka.NewReader(c.cfg)
	}
	return c.r
}

// Fetch blocks until one message is available or ctx expires. It does not
// advance the committed offset.
func (c *Consumer) Fetch(ctx context.Context) (kafka.Message, error) {
	return c.reader().FetchMessage(ctx)
}

// Commit acknowledges a fetched message.
func (c *Consumer) Commit(ctx context.Context, msg kafka.Message) error {
	return c.reader().CommitMessages(ctx, msg)
}

// Reset discards the current reader so the next Fetch resumes from the last
// committed offset. Called after a processing failure to make the uncommitted
// message visible again without restarting the process.
func (c *Consumer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.r != nil {
		_ = c.r.Close()
		c.r = nil
	}
}

// Close releases the underlying reader.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.r == nil {
		return nil
	}
	err := c.r.Close()
	c.r = nil
	return err
}
