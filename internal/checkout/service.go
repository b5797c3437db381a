package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openshelf/storefront-backend/internal/cart"
	"github.com/openshelf/storefront-backend/internal/orders"
	"github.com/openshelf/storefront-backend/pkg/db/models"
	"github.com/openshelf/storefront-backend/pkg/enums"
	pkgerrors "github.com/openshelf/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes checkout orchestration: it converts the user's cart
// into an immutable order and clears the cart in one transaction.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error)
}

type service struct {
	tx         txRunner
	cartRepo   *cart.Repository
	ordersRepo *orders.Repository
	locks      *userLocks
}

// NewService builds the checkout service.
func NewService(tx txRunner, cartRepo *cart.Repository, ordersRepo *orders.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:         tx,
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
		locks:      newUserLocks(),
	}, nil
}

func (s *service) Execute(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	// Two concurrent checkouts for the same user must not both convert
	// the same cart lines. The per-user lock serializes them; the second
	// one then sees an empty cart inside its transaction.
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		details, err := cartRepo.ListDetailsForUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(details) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		total := decimal.Zero
		lines := make([]models.OrderLine, 0, len(details))
		for _, item := range details {
			lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(lineTotal)
			lines = append(lines, models.OrderLine{
				ID:        uuid.New(),
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.Price,
				Quantity:  item.Quantity,
			})
		}

		order := &models.Order{
			ID:     uuid.New(),
			UserID: userID,
			Total:  total,
			Status: enums.OrderStatusPending,
			Lines:  lines,
		}
		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		if err := cartRepo.DeleteAllForUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return orders.FromOrder(created), nil
}
