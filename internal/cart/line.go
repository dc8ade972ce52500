package cart

import (
	"github.com/aarogyam-agencies/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the copy of a product taken at the moment it enters the cart.
// Later catalog edits never change a snapshot already in a cart.
type Snapshot struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Category     *string         `json:"category,omitempty"`
	StockCeiling int             `json:"stock_ceiling"`
}

// NewSnapshot copies the cart-relevant fields of a catalog product.
func NewSnapshot(product *models.Product) Snapshot {
	snap := Snapshot{
		ProductID:    product.ID,
		Name:         product.Name,
		UnitPrice:    product.Price,
		StockCeiling: product.StockQuantity,
	}
	if product.ImageURL != nil {
		value := *product.ImageURL
		snap.ImageURL = &value
	}
	if product.Category != nil {
		value := *product.Category
		snap.Category = &value
	}
	return snap
}

// Line pairs a snapshot with the quantity held in the cart.
type Line struct {
	Snapshot Snapshot `json:"snapshot"`
	Quantity int      `json:"quantity"`
}

// Total returns unit price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.Snapshot.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
