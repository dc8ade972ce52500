package checkout

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/aarogyam-agencies/storefront-backend/internal/cart"
	"github.com/aarogyam-agencies/storefront-backend/internal/notifications"
	"github.com/aarogyam-agencies/storefront-backend/internal/orders"
	"github.com/aarogyam-agencies/storefront-backend/pkg/db/models"
	"github.com/aarogyam-agencies/storefront-backend/pkg/enums"
	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	minNameLength    = 2
	minPhoneDigits   = 10
	minAddressLength = 10
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartManager interface {
	Get(ctx context.Context, token string) (*cart.CartDTO, error)
	Clear(ctx context.Context, token string) (*cart.CartDTO, error)
}

type eventPublisher interface {
	PublishOrderCreated(ctx context.Context, event notifications.OrderCreatedEvent) error
}

// CheckoutInput is the customer block submitted with the cart.
type CheckoutInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Result is returned to the storefront after a committed checkout.
type Result struct {
	Order       *models.Order `json:"order"`
	WhatsAppURL string        `json:"whatsapp_url"`
}

// Service executes checkout orchestration: validate, persist atomically,
// then clear the cart and hand the order to the notification relay.
type Service interface {
	Execute(ctx context.Context, token string, userID *uuid.UUID, input CheckoutInput) (*Result, error)
}

type service struct {
	tx         txRunner
	cartSvc    cartManager
	ordersRepo orders.Repository
	events     eventPublisher
	relay      *notifications.Relay
	logg       *logger.Logger
}

// NewService builds the checkout service. The event publisher may be nil in
// deployments without Pub/Sub; the relay link still comes back in the result.
func NewService(tx txRunner, cartSvc cartManager, ordersRepo orders.Repository, events eventPublisher, relay *notifications.Relay, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if relay == nil {
		return nil, fmt.Errorf("notification relay required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:         tx,
		cartSvc:    cartSvc,
		ordersRepo: ordersRepo,
		events:     events,
		relay:      relay,
		logg:       logg,
	}, nil
}

func (s *service) Execute(ctx context.Context, token string, userID *uuid.UUID, input CheckoutInput) (*Result, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	current, err := s.cartSvc.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(current.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		CustomerName:    strings.TrimSpace(input.Name),
		CustomerEmail:   strings.TrimSpace(input.Email),
		CustomerPhone:   strings.TrimSpace(input.Phone),
		CustomerAddress: strings.TrimSpace(input.Address),
		TotalAmount:     current.TotalPrice,
		Status:          enums.OrderStatusPending,
	}

	items := make([]models.OrderItem, 0, len(current.Items))
	for _, line := range current.Items {
		productID := line.ProductID
		items = append(items, models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   &productID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.LineTotal,
		})
	}

	// Order and items commit together; on any failure the cart is untouched.
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.ordersRepo.WithTx(tx)
		if _, err := txRepo.Create(ctx, order); err != nil {
			return err
		}
		return txRepo.CreateItems(ctx, items)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())

	if _, err := s.cartSvc.Clear(ctx, token); err != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "cart clear after checkout failed")
	}

	event := s.buildEvent(order, items)
	if s.events != nil {
		// Single attempt; the order stands regardless of the event's fate.
		if err := s.events.PublishOrderCreated(ctx, event); err != nil {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "order event publish failed")
		}
	}

	s.logg.Info(logCtx, "checkout completed")

	return &Result{
		Order:       order,
		WhatsAppURL: s.relay.DeepLink(event),
	}, nil
}

func (s *service) buildEvent(order *models.Order, items []models.OrderItem) notifications.OrderCreatedEvent {
	placedAt := order.CreatedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}

	eventItems := make([]notifications.OrderCreatedItem, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, notifications.OrderCreatedItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			LineTotal: item.TotalPrice,
		})
	}

	return notifications.OrderCreatedEvent{
		OrderID: order.ID,
		Customer: notifications.OrderCreatedCustomer{
			Name:    order.CustomerName,
			Email:   order.CustomerEmail,
			Phone:   order.CustomerPhone,
			Address: order.CustomerAddress,
		},
		Items:       eventItems,
		TotalAmount: order.TotalAmount,
		PlacedAt:    placedAt,
	}
}

func validateInput(input CheckoutInput) error {
	details := map[string]string{}

	if len(strings.TrimSpace(input.Name)) < minNameLength {
		details["name"] = "name must be at least 2 characters"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(input.Email)); err != nil {
		details["email"] = "a valid email is required"
	}
	if countDigits(input.Phone) < minPhoneDigits {
		details["phone"] = "phone must contain at least 10 digits"
	}
	if len(strings.TrimSpace(input.Address)) < minAddressLength {
		details["address"] = "address must be at least 10 characters"
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout details").WithDetails(details)
	}
	return nil
}

func countDigits(value string) int {
	count := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
