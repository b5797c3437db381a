package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshelf/storefront-backend/pkg/db/models"
	pkgerrors "github.com/openshelf/storefront-backend/pkg/errors"
)

const lineNotFoundMessage = "cart item not found"

// Service defines the behavior needed by the cart controller.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]LineDetail, error)
	Add(ctx context.Context, userID uuid.UUID, req AddLineRequest) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, lineID uuid.UUID) error
}

type service struct {
	lines    lineRepository
	products productFinder
}

type lineRepository interface {
	ListDetailsForUser(ctx context.Context, userID uuid.UUID) ([]LineDetail, error)
	Create(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, lineID, userID uuid.UUID, quantity int) (int64, error)
	Delete(ctx context.Context, lineID, userID uuid.UUID) (int64, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	LineRepo    lineRepository
	ProductRepo productFinder
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.LineRepo == nil {
		return nil, fmt.Errorf("cart line repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{
		lines:    params.LineRepo,
		products: params.ProductRepo,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]LineDetail, error) {
	details, err := s.lines.ListDetailsForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	if details == nil {
		details = []LineDetail{}
	}
	return details, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddLineRequest) (*models.CartLine, error) {
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	line := &models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := s.lines.Create(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
	}
	return line, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	affected, err := s.lines.UpdateQuantity(ctx, lineID, userID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	if affected == 0 {
		// covers both missing lines and lines owned by someone else
		return pkgerrors.New(pkgerrors.CodeNotFound, lineNotFoundMessage)
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, lineID uuid.UUID) error {
	affected, err := s.lines.Delete(ctx, lineID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart line")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, lineNotFoundMessage)
	}
	return nil
}
