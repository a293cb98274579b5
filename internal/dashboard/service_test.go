package dashboard

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
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  name_en TEXT,
  description TEXT,
  description_en TEXT,
  price_cents INTEGER NOT NULL,
  old_price_cents INTEGER,
  stock INTEGER NOT NULL DEFAULT 0,
  size_liters REAL,
  images TEXT NOT NULL DEFAULT '{}',
  spec_color TEXT,
  spec_coverage TEXT,
  spec_drying_time TEXT,
  spec_application TEXT,
  spec_finish TEXT,
  feature_easy_to_apply INTEGER NOT NULL DEFAULT 0,
  feature_high_quality INTEGER NOT NULL DEFAULT 0,
  feature_ten_year_warranty INTEGER NOT NULL DEFAULT 0,
  feature_weather_resistant INTEGER NOT NULL DEFAULT 0,
  feature_waterproof INTEGER NOT NULL DEFAULT 0,
  feature_eco_friendly INTEGER NOT NULL DEFAULT 0,
  feature_fast_drying INTEGER NOT NULL DEFAULT 0,
  feature_new INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`
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
);`,
		`
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  email TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`
CREATE TABLE IF NOT EXISTS contact_messages (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  subject TEXT,
  body TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'new',
  reply TEXT,
  replied_at DATETIME,
  telegram_sent INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`
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
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"reviews", "contact_messages", "orders", "customers", "products"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int, active bool) {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       "دهان داخلي",
		PriceCents: 4500,
		Stock:      stock,
		Images:     []string{},
		IsActive:   active,
	}
	require.NoError(t, db.Create(product).Error)
}

func seedOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, totalCents int, createdAt time.Time) {
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
		TotalCents:      totalCents,
		CreatedAt:       createdAt,
	}
	require.NoError(t, db.Create(order).Error)
}

func TestServiceGetStats(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(NewRepository(db), 10)
	require.NoError(t, err)
	ctx := context.Background()

	seedProduct(t, db, 50, true)
	seedProduct(t, db, 3, true)
	seedProduct(t, db, 1, false) // inactive, ignored everywhere

	now := time.Now().UTC()
	seedOrder(t, db, enums.OrderStatusPending, 10000, now)
	seedOrder(t, db, enums.OrderStatusDelivered, 25000, now.AddDate(0, 0, -2))
	seedOrder(t, db, enums.OrderStatusCancelled, 99900, now) // excluded from revenue

	require.NoError(t, db.Create(&models.Customer{
		ID:    uuid.New(),
		Name:  "أحمد علي",
		Phone: "0912345678",
	}).Error)
	require.NoError(t, db.Create(&models.ContactMessage{
		ID:     uuid.New(),
		Name:   "سارة",
		Body:   "استفسار",
		Status: enums.MessageStatusNew,
	}).Error)
	require.NoError(t, db.Create(&models.Review{
		ID:           uuid.New(),
		ProductID:    uuid.New(),
		CustomerName: "أحمد",
		Rating:       5,
		Comment:      "ممتاز",
		IsActive:     false,
	}).Error)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 35000, stats.TotalRevenueCents)
	assert.Equal(t, "350", stats.TotalRevenue.String())
	assert.EqualValues(t, 1, stats.PendingOrders)
	assert.EqualValues(t, 1, stats.LowStockProducts)
	assert.EqualValues(t, 3, stats.WeeklyOrders)
	assert.EqualValues(t, 1, stats.NewMessages)
	assert.EqualValues(t, 1, stats.PendingReviews)
}

func TestServiceGetSalesChart(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(NewRepository(db), 10)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Now().UTC()
	seedOrder(t, db, enums.OrderStatusDelivered, 4500, now)
	seedOrder(t, db, enums.OrderStatusConfirmed, 6900, now)
	seedOrder(t, db, enums.OrderStatusCancelled, 99900, now)
	seedOrder(t, db, enums.OrderStatusDelivered, 25000, now.AddDate(0, 0, -40))

	chart, err := svc.GetSalesChart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, chart.Days)
	require.Len(t, chart.Points, 7)

	today := chart.Points[len(chart.Points)-1]
	assert.Equal(t, now.Format("2006-01-02"), today.Date)
	assert.EqualValues(t, 2, today.Orders)
	assert.EqualValues(t, 11400, today.RevenueCents)
	assert.Equal(t, "114", today.Revenue.String())

	// days without orders are still present as zero points
	empty := chart.Points[0]
	assert.Zero(t, empty.Orders)
	assert.True(t, empty.Revenue.IsZero())
}

func TestServiceGetSalesChartCapsWindow(t *testing.T) {
	svc, err := NewService(NewRepository(setupDashboardTestDB(t)), 10)
	require.NoError(t, err)

	_, err = svc.GetSalesChart(context.Background(), 365)
	require.Error(t, err)
}

func TestServiceReportStatsMirrorsDashboard(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(NewRepository(db), 10)
	require.NoError(t, err)
	ctx := context.Background()

	seedProduct(t, db, 2, true)
	seedOrder(t, db, enums.OrderStatusPending, 12500, time.Now().UTC())

	report, err := svc.ReportStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, report.TotalProducts)
	assert.EqualValues(t, 1, report.PendingOrders)
	assert.EqualValues(t, 12500, report.TotalRevenueCents)
	assert.EqualValues(t, 1, report.LowStockProducts)
}
