package notifications

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func sampleEvent(t *testing.T) OrderCreatedEvent {
	t.Helper()

	orderID, err := uuid.Parse("a1b2c3d4-0000-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("parse order id: %v", err)
	}
	return OrderCreatedEvent{
		OrderID: orderID,
		Customer: OrderCreatedCustomer{
			Name:    "Ramesh Kumar",
			Email:   "ramesh@example.com",
			Phone:   "9876543210",
			Address: "12 Gandhi Road, Chennai 600001",
		},
		Items: []OrderCreatedItem{
			{Name: "Crocin Advance", Quantity: 2, LineTotal: decimal.NewFromInt(100)},
			{Name: "Dolo 650", Quantity: 1, LineTotal: decimal.NewFromInt(150)},
		},
		TotalAmount: decimal.NewFromInt(250),
		PlacedAt:    time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC),
	}
}

func TestRelayMessageFormat(t *testing.T) {
	t.Parallel()

	relay, err := NewRelay("917667227333", time.UTC)
	if err != nil {
		t.Fatalf("build relay: %v", err)
	}

	message := relay.Message(sampleEvent(t))

	wants := []string{
		"🛒 *New Order Received!*",
		"*Order ID:* a1b2c3d4",
		"*Customer Details:*",
		"Name: Ramesh Kumar",
		"Email: ramesh@example.com",
		"Phone: 9876543210",
		"Address: 12 Gandhi Road, Chennai 600001",
		"*Order Items:*",
		"• Crocin Advance x2 - ₹100.00",
		"• Dolo 650 x1 - ₹150.00",
		"*Total Amount:* ₹250.00",
		"_Order placed at: 26/8/2026, 3:30:00 pm_",
	}
	for _, want := range wants {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q\n%s", want, message)
		}
	}
}

func TestRelayDeepLink(t *testing.T) {
	t.Parallel()

	relay, err := NewRelay("917667227333", time.UTC)
	if err != nil {
		t.Fatalf("build relay: %v", err)
	}
	event := sampleEvent(t)

	link := relay.DeepLink(event)
	if !strings.HasPrefix(link, "https://wa.me/917667227333?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := parsed.Query().Get("text"); got != relay.Message(event) {
		t.Fatalf("decoded text does not round trip:\n%s", got)
	}
}

func TestShortOrderID(t *testing.T) {
	t.Parallel()

	if got := ShortOrderID("a1b2c3d4-0000-4000-8000-000000000001"); got != "a1b2c3d4" {
		t.Fatalf("unexpected short id: %s", got)
	}
	if got := ShortOrderID("abc"); got != "abc" {
		t.Fatalf("short input should pass through, got %s", got)
	}
}

func TestFormatINRIndianGrouping(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"0":          "₹0.00",
		"100":        "₹100.00",
		"1234":       "₹1,234.00",
		"99999":      "₹99,999.00",
		"100000":     "₹1,00,000.00",
		"1234567.5":  "₹12,34,567.50",
		"-1234567.5": "-₹12,34,567.50",
	}
	for raw, want := range cases {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got := FormatINR(amount); got != want {
			t.Errorf("FormatINR(%s) = %s, want %s", raw, got, want)
		}
	}
}
