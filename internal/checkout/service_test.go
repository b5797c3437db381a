package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openshelf/storefront-backend/internal/cart"
	"github.com/openshelf/storefront-backend/internal/orders"
	"github.com/openshelf/storefront-backend/pkg/db"
	"github.com/openshelf/storefront-backend/pkg/db/models"
	"github.com/openshelf/storefront-backend/pkg/enums"
	pkgerrors "github.com/openshelf/storefront-backend/pkg/errors"
)

func setupCheckoutTestDB(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// sqlite cannot serve two write transactions at once
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
	))
	return db.NewWithConn(conn), conn
}

func newCheckoutService(t *testing.T, client *db.Client, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(client, cart.NewRepository(conn), orders.NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func seedCheckoutProduct(t *testing.T, conn *gorm.DB, name, price string) *models.Product {
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

func addCartLine(t *testing.T, conn *gorm.DB, userID uuid.UUID, product *models.Product, qty int) {
	t.Helper()
	require.NoError(t, conn.Create(&models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  qty,
	}).Error)
}

func TestExecuteConvertsCartToOrder(t *testing.T) {
	client, conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, client, conn)
	ctx := context.Background()

	userID := uuid.New()
	phone := seedCheckoutProduct(t, conn, "iPhone 15 Pro", "999.99")
	book := seedCheckoutProduct(t, conn, "The Great Gatsby", "10.99")
	addCartLine(t, conn, userID, phone, 2)
	addCartLine(t, conn, userID, book, 1)

	order, err := svc.Execute(ctx, userID)
	require.NoError(t, err)

	// total is the sum of price*quantity across lines
	assert.True(t, order.Total.Equal(decimal.RequireFromString("2010.97")),
		"unexpected total %s", order.Total)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	require.Len(t, order.Lines, 2)

	// cart is cleared
	var remaining int64
	require.NoError(t, conn.Model(&models.CartLine{}).Where("user_id = ?", userID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	// order and lines are persisted
	repo := orders.NewRepository(conn)
	persisted, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, persisted.Lines, 2)
}

func TestExecuteSnapshotsPriceAndName(t *testing.T) {
	client, conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, client, conn)
	ctx := context.Background()

	userID := uuid.New()
	product := seedCheckoutProduct(t, conn, "Sony Headphones", "299.99")
	addCartLine(t, conn, userID, product, 1)

	order, err := svc.Execute(ctx, userID)
	require.NoError(t, err)

	// later catalog edits must not rewrite order history
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{"price": "999.99", "name": "Renamed"}).Error)

	repo := orders.NewRepository(conn)
	persisted, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Lines, 1)
	assert.Equal(t, "Sony Headphones", persisted.Lines[0].Name)
	assert.True(t, persisted.Lines[0].Price.Equal(decimal.RequireFromString("299.99")))
}

func TestExecuteDoesNotTouchStock(t *testing.T) {
	client, conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, client, conn)
	ctx := context.Background()

	userID := uuid.New()
	product := seedCheckoutProduct(t, conn, "Samsung 4K TV", "799.99")
	addCartLine(t, conn, userID, product, 3)

	_, err := svc.Execute(ctx, userID)
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)
}

func TestExecuteEmptyCartFails(t *testing.T) {
	client, conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, client, conn)

	_, err := svc.Execute(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestConcurrentCheckoutsProduceOneOrder(t *testing.T) {
	client, conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, client, conn)
	ctx := context.Background()

	userID := uuid.New()
	product := seedCheckoutProduct(t, conn, "Adidas Sneakers", "89.99")
	addCartLine(t, conn, userID, product, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Execute(ctx, userID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr, "unexpected error type: %v", err)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
	assert.Equal(t, 1, succeeded, "exactly one checkout should win")

	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
}
