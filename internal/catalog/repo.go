package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshelf/storefront-backend/pkg/db/models"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns products matching the optional category and search filters.
// Filters combine with AND; search matches name or description.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})

	if filters.Category != "" {
		qb = qb.Where("category = ?", filters.Category)
	}
	if q := strings.TrimSpace(filters.Search); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	var products []models.Product
	if err := qb.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
