package notifications

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// placedAtLayout mirrors an en-IN locale timestamp, e.g. "26/8/2026, 3:30:00 pm".
const placedAtLayout = "2/1/2006, 3:04:05 pm"

// Relay renders order events into the WhatsApp handoff message and deep link
// the store owner opens to confirm the order. There is no delivery API behind
// this; the link itself is the notification channel.
type Relay struct {
	number string
	loc    *time.Location
}

// NewRelay builds a relay targeting the given WhatsApp number (country code
// prefixed, digits only). Timestamps render in loc.
func NewRelay(number string, loc *time.Location) (*Relay, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("whatsapp number required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Relay{number: number, loc: loc}, nil
}

// Message renders the plain-text order summary.
func (r *Relay) Message(event OrderCreatedEvent) string {
	var b strings.Builder

	b.WriteString("🛒 *New Order Received!*\n\n")
	b.WriteString(fmt.Sprintf("*Order ID:* %s\n\n", ShortOrderID(event.OrderID.String())))
	b.WriteString("*Customer Details:*\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", event.Customer.Name))
	b.WriteString(fmt.Sprintf("Email: %s\n", event.Customer.Email))
	b.WriteString(fmt.Sprintf("Phone: %s\n", event.Customer.Phone))
	b.WriteString(fmt.Sprintf("Address: %s\n\n", event.Customer.Address))
	b.WriteString("*Order Items:*\n")
	for _, item := range event.Items {
		b.WriteString(fmt.Sprintf("• %s x%d - %s\n", item.Name, item.Quantity, FormatINR(item.LineTotal)))
	}
	b.WriteString(fmt.Sprintf("\n*Total Amount:* %s\n\n", FormatINR(event.TotalAmount)))
	b.WriteString(fmt.Sprintf("_Order placed at: %s_", event.PlacedAt.In(r.loc).Format(placedAtLayout)))

	return b.String()
}

// DeepLink returns the wa.me URL carrying the rendered message.
func (r *Relay) DeepLink(event OrderCreatedEvent) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", r.number, url.QueryEscape(r.Message(event)))
}

// ShortOrderID returns the first 8 characters of the order id, the form the
// back office and the relay message display.
func ShortOrderID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// FormatINR renders an amount with the rupee sign and Indian digit grouping,
// e.g. 1234567.5 -> ₹12,34,567.50.
func FormatINR(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	grouped := groupIndian(intPart)

	if negative {
		return "-₹" + grouped + "." + fracPart
	}
	return "₹" + grouped + "." + fracPart
}

// groupIndian groups the last three digits, then pairs: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	parts := []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		parts = append(parts, head[len(head)-2:])
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append(parts, head)
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ",")
}
