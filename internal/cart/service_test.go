package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/aarogyam-agencies/storefront-backend/pkg/db/models"
	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productLoaderFunc func(ctx context.Context, id uuid.UUID) (*models.Product, error)

func (fn productLoaderFunc) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return fn(ctx, id)
}

func activeProduct() *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Amoxicillin 250mg",
		Price:    decimal.NewFromInt(100),
		IsActive: true,
	}
}

func newTestService(t *testing.T, products productLoader) Service {
	t.Helper()

	svc, err := NewService(NewMemoryStorageFactory(), products, testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceRequiresCartToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, productLoaderFunc(func(context.Context, uuid.UUID) (*models.Product, error) {
		return activeProduct(), nil
	}))

	_, err := svc.Get(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAddItemProductNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, productLoaderFunc(func(context.Context, uuid.UUID) (*models.Product, error) {
		return nil, gorm.ErrRecordNotFound
	}))

	_, err := svc.AddItem(context.Background(), "tok-1", uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAddItemInactiveProduct(t *testing.T) {
	t.Parallel()

	product := activeProduct()
	product.IsActive = false
	svc := newTestService(t, productLoaderFunc(func(context.Context, uuid.UUID) (*models.Product, error) {
		return product, nil
	}))

	_, err := svc.AddItem(context.Background(), "tok-1", product.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceCartPersistsAcrossCalls(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	product := activeProduct()
	svc := newTestService(t, productLoaderFunc(func(context.Context, uuid.UUID) (*models.Product, error) {
		return product, nil
	}))

	if _, err := svc.AddItem(ctx, "tok-1", product.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := svc.AddItem(ctx, "tok-1", product.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// A fresh Get rehydrates from storage rather than process memory.
	got, err := svc.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if got.TotalItems != 2 || len(got.Items) != 1 {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if !got.TotalPrice.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected total 200, got %s", got.TotalPrice)
	}
}

func TestServiceCartsIsolatedByToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	product := activeProduct()
	svc := newTestService(t, productLoaderFunc(func(context.Context, uuid.UUID) (*models.Product, error) {
		return product, nil
	}))

	if _, err := svc.AddItem(ctx, "tok-a", product.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	other, err := svc.Get(ctx, "tok-b")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if other.TotalItems != 0 {
		t.Fatalf("expected empty cart for other token, got %+v", other)
	}
}

func TestServiceUpdateQuantityAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	product := activeProduct()
	svc := newTestService(t, productLoaderFunc(func(context.Context, uuid.UUID) (*models.Product, error) {
		return product, nil
	}))

	if _, err := svc.AddItem(ctx, "tok-1", product.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	got, err := svc.UpdateQuantity(ctx, "tok-1", product.ID, 3)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if got.TotalItems != 3 || !got.TotalPrice.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected cart after update: %+v", got)
	}

	got, err = svc.Clear(ctx, "tok-1")
	if err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	if got.TotalItems != 0 || len(got.Items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", got)
	}
}

type failingStorageFactory struct{}

func (failingStorageFactory) ForToken(string) Storage { return failingStorage{} }

type failingStorage struct{}

func (failingStorage) Load(context.Context) ([]Line, error) {
	return nil, errors.New("redis down")
}
func (failingStorage) Save(context.Context, []Line) error {
	return errors.New("redis down")
}

func TestServiceLoadFailureSurfacesDependencyError(t *testing.T) {
	t.Parallel()

	svc, err := NewService(failingStorageFactory{}, productLoaderFunc(func(context.Context, uuid.UUID) (*models.Product, error) {
		return activeProduct(), nil
	}), testLogger())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Get(context.Background(), "tok-1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error: %v", err)
	}
}
