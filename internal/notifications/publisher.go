package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
)

type topicPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Publisher emits order events onto the orders topic. Publishing is a single
// attempt; callers that treat the event as best-effort log and move on.
type Publisher struct {
	topic topicPublisher
}

// NewPublisher wraps a Pub/Sub publisher handle.
func NewPublisher(topic topicPublisher) (*Publisher, error) {
	if topic == nil {
		return nil, fmt.Errorf("orders topic publisher required")
	}
	return &Publisher{topic: topic}, nil
}

// PublishOrderCreated sends the event and waits for the server ack.
func (p *Publisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"event_type": EventTypeOrderCreated},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}
