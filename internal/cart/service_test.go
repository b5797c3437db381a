package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openshelf/storefront-backend/internal/catalog"
	"github.com/openshelf/storefront-backend/pkg/db/models"
	pkgerrors "github.com/openshelf/storefront-backend/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Product{}, &models.CartLine{}))
	return conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, name string, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
		Category:    "Electronics",
		Stock:       10,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func newCartService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		LineRepo:    NewRepository(conn),
		ProductRepo: catalog.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc
}

func TestAddAndListCart(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	ctx := context.Background()

	userID := uuid.New()
	product := mustCreateProduct(t, conn, "Sony Headphones", "299.99")

	line, err := svc.Add(ctx, userID, AddLineRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, line.ID)

	details, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, product.ID, details[0].ProductID)
	assert.Equal(t, "Sony Headphones", details[0].Name)
	assert.Equal(t, 2, details[0].Quantity)
	assert.True(t, details[0].Price.Equal(decimal.RequireFromString("299.99")))
}

func TestListEmptyCartReturnsEmptySlice(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)

	details, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, details)
	assert.Empty(t, details)
}

func TestAddRejectsMissingProduct(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)

	_, err := svc.Add(context.Background(), uuid.New(), AddLineRequest{ProductID: uuid.New(), Quantity: 1})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestAddRejectsInvalidQuantity(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	product := mustCreateProduct(t, conn, "Nike Air Max", "129.99")

	_, err := svc.Add(context.Background(), uuid.New(), AddLineRequest{ProductID: product.ID, Quantity: 0})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestUpdateQuantityScopedToOwner(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	ctx := context.Background()

	owner := uuid.New()
	intruder := uuid.New()
	product := mustCreateProduct(t, conn, "MacBook Air M3", "1299.99")

	line, err := svc.Add(ctx, owner, AddLineRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	// another user touching the line must look like a miss, not a permission error
	err = svc.UpdateQuantity(ctx, intruder, line.ID, 5)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	require.NoError(t, svc.UpdateQuantity(ctx, owner, line.ID, 5))

	details, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, 5, details[0].Quantity)
}

func TestRemoveScopedToOwner(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newCartService(t, conn)
	ctx := context.Background()

	owner := uuid.New()
	product := mustCreateProduct(t, conn, "Levi's Jeans", "59.99")

	line, err := svc.Add(ctx, owner, AddLineRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	err = svc.Remove(ctx, uuid.New(), line.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	require.NoError(t, svc.Remove(ctx, owner, line.ID))

	err = svc.Remove(ctx, owner, line.ID)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
