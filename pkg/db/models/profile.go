package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the shopper-editable contact fields, keyed by user.
type Profile struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName  *string   `gorm:"column:full_name" json:"full_name,omitempty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
