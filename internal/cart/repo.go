package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshelf/storefront-backend/pkg/db/models"
)

// Repository manages persistent cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListDetailsForUser returns the user's cart lines joined with product data.
func (r *Repository) ListDetailsForUser(ctx context.Context, userID uuid.UUID) ([]LineDetail, error) {
	var details []LineDetail
	err := r.db.WithContext(ctx).
		Table("cart_lines").
		Select("cart_lines.id, cart_lines.product_id, products.name, products.price, products.image_url, cart_lines.quantity, cart_lines.added_at").
		Joins("JOIN products ON products.id = cart_lines.product_id").
		Where("cart_lines.user_id = ?", userID).
		Order("cart_lines.added_at ASC").
		Scan(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ListForUser returns the raw cart lines owned by the user.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("added_at ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Create inserts a new cart line.
func (r *Repository) Create(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// UpdateQuantity changes the quantity of a line owned by the user.
// Returns the number of rows touched so callers can distinguish misses.
func (r *Repository) UpdateQuantity(ctx context.Context, lineID, userID uuid.UUID, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND user_id = ?", lineID, userID).
		UpdateColumn("quantity", quantity)
	return res.RowsAffected, res.Error
}

// Delete removes a line owned by the user.
func (r *Repository) Delete(ctx context.Context, lineID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

// DeleteAllForUser clears the user's cart.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
}
