package products

import (
	"context"
	"testing"

	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	svc, err := NewService(NewRepository(openTestDB(t)))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceCreateProductValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"empty name", CreateProductInput{Name: "   ", Price: decimal.NewFromInt(10)}},
		{"negative price", CreateProductInput{Name: "Dettol", Price: decimal.NewFromInt(-1)}},
		{"negative stock", CreateProductInput{Name: "Dettol", Price: decimal.NewFromInt(10), StockQuantity: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestServiceCreateAndGetProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:          "  Dettol Antiseptic  ",
		Category:      strPtr("First Aid"),
		Price:         decimal.NewFromInt(95),
		StockQuantity: 20,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.Name != "Dettol Antiseptic" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	fetched, err := svc.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if !fetched.Price.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("unexpected price: %s", fetched.Price)
	}
}

func TestServiceGetProductNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceUpdateProductPartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:          "Moov Spray",
		Category:      strPtr("Pain Relief"),
		Price:         decimal.NewFromInt(180),
		StockQuantity: 12,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	inactive := false
	price := decimal.NewFromInt(199)
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{
		Price:    &price,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if !updated.Price.Equal(price) || updated.IsActive {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.Name != "Moov Spray" || updated.StockQuantity != 12 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestServiceDeleteProductNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.DeleteProduct(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}
