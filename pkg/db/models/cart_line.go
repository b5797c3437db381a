package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine persists a single product entry in a user's open cart.
// The cart is implicit: every line owned by a user is part of it.
type CartLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	AddedAt   time.Time `gorm:"column:added_at;autoCreateTime"`
}

// TableName overrides gorm's default pluralization.
func (CartLine) TableName() string {
	return "cart_lines"
}
