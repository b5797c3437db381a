package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openshelf/storefront-backend/pkg/db/models"
	pkgerrors "github.com/openshelf/storefront-backend/pkg/errors"
)

// Service defines the order history surface used by the orders controller.
type Service interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
}

type service struct {
	repo orderRepository
}

type orderRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

// NewService constructs an orders service with the provided repository.
func NewService(repo orderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return fromModels(orders), nil
}
