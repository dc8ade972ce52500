package checkout

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aarogyam-agencies/storefront-backend/internal/cart"
	"github.com/aarogyam-agencies/storefront-backend/internal/notifications"
	"github.com/aarogyam-agencies/storefront-backend/internal/orders"
	"github.com/aarogyam-agencies/storefront-backend/pkg/db/models"
	"github.com/aarogyam-agencies/storefront-backend/pkg/enums"
	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubTx struct {
	err   error
	calls int
}

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubCart struct {
	dto      *cart.CartDTO
	getErr   error
	clearErr error
	cleared  int
}

func (s *stubCart) Get(ctx context.Context, token string) (*cart.CartDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.dto, nil
}

func (s *stubCart) Clear(ctx context.Context, token string) (*cart.CartDTO, error) {
	s.cleared++
	if s.clearErr != nil {
		return nil, s.clearErr
	}
	return &cart.CartDTO{Items: []cart.LineDTO{}, TotalPrice: decimal.Zero}, nil
}

type stubOrdersRepo struct {
	orders.Repository

	createErr error
	order     *models.Order
	items     []models.OrderItem
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.order = order
	return order, nil
}

func (s *stubOrdersRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	s.items = items
	return nil
}

type stubPublisher struct {
	err    error
	events []notifications.OrderCreatedEvent
}

func (s *stubPublisher) PublishOrderCreated(ctx context.Context, event notifications.OrderCreatedEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testRelay(t *testing.T) *notifications.Relay {
	t.Helper()

	relay, err := notifications.NewRelay("917667227333", time.UTC)
	if err != nil {
		t.Fatalf("build relay: %v", err)
	}
	return relay
}

func filledCart() *cart.CartDTO {
	return &cart.CartDTO{
		Items: []cart.LineDTO{
			{
				ProductID: uuid.New(),
				Name:      "Crocin Advance",
				UnitPrice: decimal.NewFromInt(50),
				Quantity:  2,
				LineTotal: decimal.NewFromInt(100),
			},
			{
				ProductID: uuid.New(),
				Name:      "Digene Gel",
				UnitPrice: decimal.NewFromInt(150),
				Quantity:  1,
				LineTotal: decimal.NewFromInt(150),
			},
		},
		TotalItems: 3,
		TotalPrice: decimal.NewFromInt(250),
	}
}

func validInput() CheckoutInput {
	return CheckoutInput{
		Name:    "Asha Nair",
		Email:   "asha@example.com",
		Phone:   "+91 98765 43210",
		Address: "12 MG Road, Kochi, Kerala",
	}
}

func TestExecuteRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input CheckoutInput
		field string
	}{
		{
			name:  "short name",
			input: CheckoutInput{Name: "A", Email: "a@b.com", Phone: "9876543210", Address: "12 MG Road, Kochi"},
			field: "name",
		},
		{
			name:  "bad email",
			input: CheckoutInput{Name: "Asha", Email: "not-an-email", Phone: "9876543210", Address: "12 MG Road, Kochi"},
			field: "email",
		},
		{
			name:  "short phone",
			input: CheckoutInput{Name: "Asha", Email: "a@b.com", Phone: "12345", Address: "12 MG Road, Kochi"},
			field: "phone",
		},
		{
			name:  "short address",
			input: CheckoutInput{Name: "Asha", Email: "a@b.com", Phone: "9876543210", Address: "short"},
			field: "address",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cartSvc := &stubCart{dto: filledCart()}
			svc := newTestService(t, &stubTx{}, cartSvc, &stubOrdersRepo{}, &stubPublisher{})

			_, err := svc.Execute(context.Background(), "token-1", nil, tc.input)

			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			details, ok := appErr.Details().(map[string]string)
			if !ok {
				t.Fatalf("expected field details, got %T", appErr.Details())
			}
			if _, found := details[tc.field]; !found {
				t.Fatalf("expected detail for %q, got %v", tc.field, details)
			}
			if cartSvc.cleared != 0 {
				t.Fatal("cart must not be touched on validation failure")
			}
		})
	}
}

func TestExecuteRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	cartSvc := &stubCart{dto: &cart.CartDTO{Items: []cart.LineDTO{}, TotalPrice: decimal.Zero}}
	tx := &stubTx{}
	svc := newTestService(t, tx, cartSvc, &stubOrdersRepo{}, &stubPublisher{})

	_, err := svc.Execute(context.Background(), "token-1", nil, validInput())

	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if tx.calls != 0 {
		t.Fatal("no transaction should start for an empty cart")
	}
}

func TestExecutePersistsOrderAndClearsCart(t *testing.T) {
	t.Parallel()

	cartSvc := &stubCart{dto: filledCart()}
	repo := &stubOrdersRepo{}
	pub := &stubPublisher{}
	svc := newTestService(t, &stubTx{}, cartSvc, repo, pub)

	userID := uuid.New()
	result, err := svc.Execute(context.Background(), "token-1", &userID, validInput())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if repo.order == nil {
		t.Fatal("expected order to be created")
	}
	if repo.order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", repo.order.Status)
	}
	if repo.order.UserID == nil || *repo.order.UserID != userID {
		t.Fatal("expected order linked to the user")
	}
	if !repo.order.TotalAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected total 250, got %s", repo.order.TotalAmount)
	}
	if len(repo.items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(repo.items))
	}
	if repo.items[0].ProductName != "Crocin Advance" || repo.items[0].Quantity != 2 {
		t.Fatalf("unexpected first item: %+v", repo.items[0])
	}

	if cartSvc.cleared != 1 {
		t.Fatalf("expected cart cleared once, got %d", cartSvc.cleared)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.events))
	}
	if pub.events[0].OrderID != repo.order.ID {
		t.Fatal("published event must carry the order id")
	}

	if result.Order.ID != repo.order.ID {
		t.Fatal("result must carry the created order")
	}
	if !strings.HasPrefix(result.WhatsAppURL, "https://wa.me/917667227333?text=") {
		t.Fatalf("unexpected whatsapp url %q", result.WhatsAppURL)
	}
}

func TestExecuteKeepsCartOnPersistFailure(t *testing.T) {
	t.Parallel()

	cartSvc := &stubCart{dto: filledCart()}
	pub := &stubPublisher{}
	svc := newTestService(t, &stubTx{err: errors.New("deadlock")}, cartSvc, &stubOrdersRepo{}, pub)

	_, err := svc.Execute(context.Background(), "token-1", nil, validInput())

	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if cartSvc.cleared != 0 {
		t.Fatal("cart must survive a failed checkout")
	}
	if len(pub.events) != 0 {
		t.Fatal("no event should publish for a failed checkout")
	}
}

func TestExecuteSucceedsWhenPublishFails(t *testing.T) {
	t.Parallel()

	cartSvc := &stubCart{dto: filledCart()}
	svc := newTestService(t, &stubTx{}, cartSvc, &stubOrdersRepo{}, &stubPublisher{err: errors.New("pubsub down")})

	result, err := svc.Execute(context.Background(), "token-1", nil, validInput())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Order == nil {
		t.Fatal("expected order in result")
	}
	if cartSvc.cleared != 1 {
		t.Fatal("cart should still clear when the event publish fails")
	}
}

func TestExecuteSucceedsWhenCartClearFails(t *testing.T) {
	t.Parallel()

	cartSvc := &stubCart{dto: filledCart(), clearErr: errors.New("redis down")}
	svc := newTestService(t, &stubTx{}, cartSvc, &stubOrdersRepo{}, &stubPublisher{})

	result, err := svc.Execute(context.Background(), "token-1", nil, validInput())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.WhatsAppURL == "" {
		t.Fatal("expected whatsapp url in result")
	}
}

func newTestService(t *testing.T, tx txRunner, cartSvc cartManager, repo orders.Repository, pub eventPublisher) Service {
	t.Helper()

	svc, err := NewService(tx, cartSvc, repo, pub, testRelay(t), testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}
