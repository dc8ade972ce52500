package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
	"github.com/aarogyam-agencies/storefront-backend/pkg/metrics"
)

const relayChannel = "whatsapp"

// Handoff receives the rendered deep link for one order. The default handoff
// logs it; there is no delivery API to call behind wa.me.
type Handoff interface {
	Deliver(ctx context.Context, event OrderCreatedEvent, deepLink string) error
}

// LogHandoff writes the deep link to the structured log, where the operator
// picks it up.
type LogHandoff struct {
	logg *logger.Logger
}

func NewLogHandoff(logg *logger.Logger) *LogHandoff {
	return &LogHandoff{logg: logg}
}

func (h *LogHandoff) Deliver(ctx context.Context, event OrderCreatedEvent, deepLink string) error {
	ctx = h.logg.WithFields(ctx, map[string]any{
		"order_id":  event.OrderID.String(),
		"customer":  event.Customer.Name,
		"total":     event.TotalAmount.String(),
		"whatsapp":  deepLink,
		"placed_at": event.PlacedAt,
	})
	h.logg.Info(ctx, "order notification ready")
	return nil
}

// Consumer watches the orders subscription and performs the WhatsApp handoff
// for each created order. Every message is acked exactly once: a failed
// handoff is warn-logged, never retried.
type Consumer struct {
	subscription *pubsub.Subscriber
	relay        *Relay
	handoff      Handoff
	metrics      *metrics.RelayMetrics
	logg         *logger.Logger
}

// NewConsumer builds the order notification consumer.
func NewConsumer(subscription *pubsub.Subscriber, relay *Relay, handoff Handoff, relayMetrics *metrics.RelayMetrics, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if relay == nil {
		return nil, fmt.Errorf("relay required")
	}
	if handoff == nil {
		return nil, fmt.Errorf("handoff required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: subscription,
		relay:        relay,
		handoff:      handoff,
		metrics:      relayMetrics,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		c.Process(ctx, msg.Attributes["event_type"], msg.Data)
		msg.Ack()
	})
}

// Process handles a single message body. Exposed for the worker tests.
func (c *Consumer) Process(ctx context.Context, eventType string, data []byte) {
	logCtx := c.logg.WithField(ctx, "event_type", eventType)

	if eventType != EventTypeOrderCreated {
		c.logg.Info(logCtx, "skipping non-order event")
		return
	}

	started := time.Now()

	var event OrderCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode order event", err)
		c.metrics.IncFailure(relayChannel)
		return
	}

	logCtx = c.logg.WithOrderID(logCtx, event.OrderID.String())

	deepLink := c.relay.DeepLink(event)
	if err := c.handoff.Deliver(logCtx, event, deepLink); err != nil {
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "notification handoff failed, dropping event")
		c.metrics.IncFailure(relayChannel)
		c.metrics.ObserveDuration(relayChannel, time.Since(started))
		return
	}

	c.metrics.IncSuccess(relayChannel)
	c.metrics.ObserveDuration(relayChannel, time.Since(started))
}
