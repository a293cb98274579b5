package review

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
	"github.com/sipeslibya/storefront-backend/pkg/pagination"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	reviews := `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL,
  reply TEXT,
  replied_at DATETIME,
  verified INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 0,
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
	require.NoError(t, db.Exec(reviews).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec("DELETE FROM reviews").Error)
	require.NoError(t, db.Exec("DELETE FROM order_items").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func newReview(t *testing.T, db *gorm.DB, productID uuid.UUID, rating int, active bool, createdAt time.Time) *models.Review {
	t.Helper()
	review := &models.Review{
		ID:           uuid.New(),
		ProductID:    productID,
		CustomerName: "أحمد",
		Rating:       rating,
		Comment:      "منتج ممتاز",
		IsActive:     active,
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}

func TestRepositoryListByProductOnlyPublished(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	published := newReview(t, db, productID, 5, true, time.Now())
	_ = newReview(t, db, productID, 1, false, time.Now())
	_ = newReview(t, db, uuid.New(), 4, true, time.Now())

	rows, err := repo.ListByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, published.ID, rows[0].ID)
}

func TestRepositoryAverageRating(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	newReview(t, db, productID, 5, true, time.Now())
	newReview(t, db, productID, 3, true, time.Now())
	newReview(t, db, productID, 1, false, time.Now())

	avg, count, err := repo.AverageRating(ctx, productID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 0.001, "hidden reviews stay out of the aggregate")
	assert.EqualValues(t, 2, count)

	avg, count, err = repo.AverageRating(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, count)
}

func TestRepositoryListReviewsPendingFilter(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pending := newReview(t, db, uuid.New(), 4, false, time.Now())
	_ = newReview(t, db, uuid.New(), 5, true, time.Now())

	rows, _, err := repo.ListReviews(ctx, reviewListQuery{Pagination: pagination.Params{Limit: 10}, Pending: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pending.ID, rows[0].ID)

	all, _, err := repo.ListReviews(ctx, reviewListQuery{Pagination: pagination.Params{Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryHasDeliveredOrder(t *testing.T) {
	db := setupReviewsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	orderID := uuid.New()
	require.NoError(t, db.Exec(
		"INSERT INTO orders (id, customer_id, customer_name, customer_phone, shipping_address, status, total_cents) VALUES (?, ?, ?, ?, ?, ?, ?)",
		orderID.String(), uuid.NewString(), "أحمد", "0911111111", "طرابلس", "delivered", 9000,
	).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO order_items (id, order_id, product_id, name, unit_price_cents, qty, line_total_cents) VALUES (?, ?, ?, ?, ?, ?, ?)",
		uuid.NewString(), orderID.String(), productID.String(), "دهان", 4500, 2, 9000,
	).Error)

	verified, err := repo.HasDeliveredOrder(ctx, productID, "0911111111")
	require.NoError(t, err)
	assert.True(t, verified)

	verified, err = repo.HasDeliveredOrder(ctx, productID, "0999999999")
	require.NoError(t, err)
	assert.False(t, verified)
}
