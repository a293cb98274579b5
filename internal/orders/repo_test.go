package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	"github.com/sipeslibya/storefront-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_email TEXT,
  shipping_address TEXT NOT NULL,
  notes TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT 'cash',
  total_cents INTEGER NOT NULL,
  telegram_notification_sent INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec("DELETE FROM order_items").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func newOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		CustomerName:    "أحمد علي",
		CustomerPhone:   "0912345678",
		ShippingAddress: "طرابلس",
		Status:          status,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   enums.PaymentMethodCash,
		TotalCents:      9000,
		Items: []models.OrderItem{
			{
				ID:             uuid.New(),
				ProductID:      uuid.New(),
				Name:           "دهان داخلي",
				UnitPriceCents: 4500,
				Quantity:       2,
				LineTotalCents: 9000,
			},
		},
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreateAndFindOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := newOrder(t, db, enums.OrderStatusPending, time.Now())

	fetched, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "أحمد علي", fetched.CustomerName)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, 9000, fetched.Items[0].LineTotalCents)
}

func TestRepositoryUpdateStatusAndFlag(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(t, db, enums.OrderStatusPending, time.Now())

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusConfirmed))
	require.NoError(t, repo.SetTelegramFlag(ctx, order.ID, true))
	require.NoError(t, repo.UpdatePayment(ctx, order.ID, enums.PaymentStatusPaid, enums.PaymentMethodBankTransfer))

	fetched, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, fetched.Status)
	assert.True(t, fetched.TelegramNotificationSent)
	assert.Equal(t, enums.PaymentStatusPaid, fetched.PaymentStatus)
	assert.Equal(t, enums.PaymentMethodBankTransfer, fetched.PaymentMethod)
}

func TestRepositoryListOrdersFiltersAndPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	oldest := newOrder(t, db, enums.OrderStatusPending, base)
	middle := newOrder(t, db, enums.OrderStatusConfirmed, base.Add(time.Minute))
	newest := newOrder(t, db, enums.OrderStatusPending, base.Add(2*time.Minute))

	pending := enums.OrderStatusPending
	filtered, _, err := repo.ListOrders(ctx, orderListQuery{
		Pagination: pagination.Params{Limit: 10},
		Filters:    ListFilters{Status: &pending},
	})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, newest.ID, filtered[0].ID)
	assert.Equal(t, oldest.ID, filtered[1].ID)

	firstPage, cursor, err := repo.ListOrders(ctx, orderListQuery{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, newest.ID, firstPage[0].ID)
	assert.Equal(t, middle.ID, firstPage[1].ID)

	secondPage, cursor, err := repo.ListOrders(ctx, orderListQuery{Pagination: pagination.Params{Limit: 2, Cursor: cursor}})
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Empty(t, cursor)
	assert.Equal(t, oldest.ID, secondPage[0].ID)

	byCustomer, _, err := repo.ListOrders(ctx, orderListQuery{
		Pagination: pagination.Params{Limit: 10},
		Filters:    ListFilters{CustomerID: &middle.CustomerID},
	})
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, middle.ID, byCustomer[0].ID)
}
