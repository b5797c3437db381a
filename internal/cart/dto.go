package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineDetail is a cart line joined with its product snapshot for display.
type LineDetail struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

// AddLineRequest captures the payload for adding a product to the cart.
type AddLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateLineRequest captures the payload for changing a line quantity.
type UpdateLineRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}
