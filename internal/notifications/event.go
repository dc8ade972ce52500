package notifications

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeOrderCreated is the attribute value stamped on order events.
const EventTypeOrderCreated = "order.created"

// OrderCreatedItem is one purchased line carried in the event payload.
type OrderCreatedItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderCreatedCustomer carries the contact block for the relay message.
type OrderCreatedCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderCreatedEvent is published after a checkout commits and consumed by the
// notify worker.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID            `json:"order_id"`
	Customer    OrderCreatedCustomer `json:"customer"`
	Items       []OrderCreatedItem   `json:"items"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	PlacedAt    time.Time            `json:"placed_at"`
}
