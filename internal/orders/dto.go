package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openshelf/storefront-backend/pkg/db/models"
	"github.com/openshelf/storefront-backend/pkg/enums"
)

// LineDTO is the transport shape for a single order line.
type LineDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderDTO is the transport shape for order history entries. Items is a
// human readable digest like "2x iPhone 15 Pro, 1x The Great Gatsby".
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	Total     decimal.Decimal   `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	Items     string            `json:"items"`
	Lines     []LineDTO         `json:"lines"`
	CreatedAt time.Time         `json:"created_at"`
}

// FromOrder converts a persisted order into its transport shape.
func FromOrder(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	lines := make([]LineDTO, 0, len(o.Lines))
	parts := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, LineDTO{
			ID:        line.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
		parts = append(parts, fmt.Sprintf("%dx %s", line.Quantity, line.Name))
	}

	return &OrderDTO{
		ID:        o.ID,
		Total:     o.Total,
		Status:    o.Status,
		Items:     strings.Join(parts, ", "),
		Lines:     lines,
		CreatedAt: o.CreatedAt,
	}
}

func fromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromOrder(&orders[i]))
	}
	return out
}
