package models

import (
	"time"

	"github.com/aarogyam-agencies/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order captures a checkout submission together with its line items.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          *uuid.UUID        `gorm:"column:user_id;type:uuid" json:"user_id,omitempty"`
	CustomerName    string            `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerEmail   string            `gorm:"column:customer_email;not null" json:"customer_email"`
	CustomerPhone   string            `gorm:"column:customer_phone;not null" json:"customer_phone"`
	CustomerAddress string            `gorm:"column:customer_address;not null" json:"customer_address"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null" json:"total_amount"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
