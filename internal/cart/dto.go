package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineDTO flattens a line for the HTTP surface.
type LineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Category  *string         `json:"category,omitempty"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the cart as returned by every cart endpoint.
type CartDTO struct {
	Items      []LineDTO       `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func buildCartDTO(store *Store) *CartDTO {
	lines := store.Lines()
	dto := &CartDTO{
		Items:      make([]LineDTO, 0, len(lines)),
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
	}
	for _, line := range lines {
		dto.Items = append(dto.Items, LineDTO{
			ProductID: line.Snapshot.ProductID,
			Name:      line.Snapshot.Name,
			UnitPrice: line.Snapshot.UnitPrice,
			ImageURL:  line.Snapshot.ImageURL,
			Category:  line.Snapshot.Category,
			Quantity:  line.Quantity,
			LineTotal: line.Total(),
		})
	}
	return dto
}
