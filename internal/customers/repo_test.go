package customer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/pagination"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  email TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
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
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	require.NoError(t, db.Exec("DELETE FROM customers").Error)
	return db
}

func newCustomer(t *testing.T, db *gorm.DB, name, phone string, createdAt time.Time) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:        uuid.New(),
		Name:      name,
		Phone:     phone,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func TestRepositoryUpsertByPhone(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	email := "first@example.com"
	created, err := repo.UpsertByPhone(ctx, &models.Customer{
		ID:    uuid.New(),
		Name:  "أحمد",
		Phone: "0911111111",
		Email: &email,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	updated, err := repo.UpsertByPhone(ctx, &models.Customer{
		ID:    uuid.New(),
		Name:  "أحمد علي",
		Phone: "0911111111",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "same phone must reuse the row")
	assert.Equal(t, "أحمد علي", updated.Name)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "first@example.com", *updated.Email, "absent email must not erase the stored one")
}

func TestRepositoryListCustomersPagination(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		newCustomer(t, db, fmt.Sprintf("عميل %d", i), fmt.Sprintf("09120000%02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	firstPage, cursor, err := repo.ListCustomers(ctx, customerListQuery{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, "عميل 2", firstPage[0].Name, "newest first")

	secondPage, cursor, err := repo.ListCustomers(ctx, customerListQuery{Pagination: pagination.Params{Limit: 2, Cursor: cursor}})
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Empty(t, cursor)
	assert.Equal(t, "عميل 0", secondPage[0].Name)
}

func TestRepositoryListCustomersSearch(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	target := newCustomer(t, db, "سارة", "0925555555", time.Now())
	newCustomer(t, db, "أحمد", "0912222222", time.Now())

	byName, _, err := repo.ListCustomers(ctx, customerListQuery{Pagination: pagination.Params{Limit: 10}, Query: "سارة"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, target.ID, byName[0].ID)

	byPhone, _, err := repo.ListCustomers(ctx, customerListQuery{Pagination: pagination.Params{Limit: 10}, Query: "092555"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, target.ID, byPhone[0].ID)
}

func TestRepositoryCountOrders(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customer := newCustomer(t, db, "أحمد", "0913333333", time.Now())
	require.NoError(t, db.Exec(
		"INSERT INTO orders (id, customer_id, customer_name, customer_phone, shipping_address, total_cents) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.NewString(), customer.ID.String(), customer.Name, customer.Phone, "طرابلس", 9000,
	).Error)

	count, err := repo.CountOrders(ctx, customer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
