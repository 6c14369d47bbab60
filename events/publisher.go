package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// RepriceEvent describes a completed repricing pass: which scope was
// repriced and how many products were touched. Consumers use it to refresh
// caches and price displays.
type RepriceEvent struct {
	Scope      string    `json:"scope"`
	ScopeID    string    `json:"scope_id,omitempty"`
	Products   int       `json:"products"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits pricing events to Kafka. A Publisher with a nil writer is
// valid and drops events silently, so callers never need to branch on
// whether Kafka is configured.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(writer *kafka.Writer) *Publisher {
	return &Publisher{writer: writer}
}

// PublishReprice sends a RepriceEvent. Publish failures are logged, not
// returned: the database commit already happened and events are advisory.
func (p *Publisher) PublishReprice(ctx context.Context, event RepriceEvent) {
	if p == nil || p.writer == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("WARNING: failed to marshal reprice event: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("reprice-%s", event.Scope)),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("WARNING: failed to publish reprice event: %v", err)
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
