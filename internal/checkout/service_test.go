package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/internal/cart"
	"github.com/sipeslibya/storefront-backend/internal/customers"
	"github.com/sipeslibya/storefront-backend/internal/orders"
	"github.com/sipeslibya/storefront-backend/internal/products"
	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_en TEXT,
  description TEXT,
  description_en TEXT,
  image_url TEXT,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
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
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"order_items", "orders", "customers", "products"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type testCartRegistry struct {
	stores map[string]*cart.Store
}

func (r *testCartRegistry) Get(sessionID string) *cart.Store {
	if store, ok := r.stores[sessionID]; ok {
		return store
	}
	store := cart.NewStore()
	r.stores[sessionID] = store
	return store
}

type fakeCheckoutNotifier struct {
	orders   []*models.Order
	lowStock [][]models.Product
	sent     bool
}

func (f *fakeCheckoutNotifier) OrderSubmitted(_ context.Context, order *models.Order) bool {
	f.orders = append(f.orders, order)
	return f.sent
}

func (f *fakeCheckoutNotifier) LowStock(_ context.Context, drained []models.Product) bool {
	f.lowStock = append(f.lowStock, drained)
	return true
}

type checkoutFixture struct {
	svc      Service
	db       *gorm.DB
	carts    *testCartRegistry
	notifier *fakeCheckoutNotifier
}

func newCheckoutFixture(t *testing.T, notificationsSent bool) *checkoutFixture {
	t.Helper()
	db := setupCheckoutTestDB(t)
	carts := &testCartRegistry{stores: make(map[string]*cart.Store)}
	notifier := &fakeCheckoutNotifier{sent: notificationsSent}
	logg := logger.New(logger.Options{Output: io.Discard})

	svc, err := NewService(ServiceParams{
		Tx:           &testTxRunner{db: db},
		Carts:        carts,
		CustomerRepo: customer.NewRepository(db),
		OrderRepo:    orders.NewRepository(db),
		ProductRepo:  product.NewRepository(db),
		Notifier:     notifier,
		Logger:       logg,
		Checkout:     config.CheckoutConfig{NotifyTimeout: 0},
	})
	require.NoError(t, err)
	return &checkoutFixture{svc: svc, db: db, carts: carts, notifier: notifier}
}

func seedCheckoutProduct(t *testing.T, db *gorm.DB, name string, priceCents, stock int, active bool) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Stock:      stock,
		Images:     []string{},
		IsActive:   active,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func fillCart(f *checkoutFixture, sessionID string, p *models.Product, qty int) {
	f.carts.Get(sessionID).AddItem(cart.Line{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		Quantity:       qty,
	})
}

func validInput() SubmitInput {
	return SubmitInput{
		Name:    "أحمد علي",
		Phone:   "0912345678",
		Address: "طرابلس، شارع الجمهورية",
	}
}

func TestServiceSubmitHappyPath(t *testing.T) {
	f := newCheckoutFixture(t, true)
	ctx := context.Background()
	p := seedCheckoutProduct(t, f.db, "دهان داخلي", 4500, 20, true)
	fillCart(f, "session-1", p, 2)

	result, err := f.svc.Submit(ctx, "session-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, result.Status)
	assert.Equal(t, 9000, result.TotalCents)
	assert.True(t, result.NotificationSent)

	// order row with snapshot items and the notification flag
	order, err := orders.NewRepository(f.db).FindByID(ctx, result.OrderID)
	require.NoError(t, err)
	assert.True(t, order.TelegramNotificationSent)
	require.Len(t, order.Items, 1)
	assert.Equal(t, p.ID, order.Items[0].ProductID)
	assert.Equal(t, 9000, order.Items[0].LineTotalCents)

	// customer upserted from the contact block
	cust, err := customer.NewRepository(f.db).FindByPhone(ctx, "0912345678")
	require.NoError(t, err)
	assert.Equal(t, "أحمد علي", cust.Name)

	// stock reserved, cart cleared
	stored, err := product.NewRepository(f.db).FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, stored.Stock)
	assert.Zero(t, f.carts.Get("session-1").Len())
}

func TestServiceSubmitKeepsCartWhenBroadcastFails(t *testing.T) {
	f := newCheckoutFixture(t, false)
	ctx := context.Background()
	p := seedCheckoutProduct(t, f.db, "دهان خارجي", 6900, 10, true)
	fillCart(f, "session-1", p, 1)

	result, err := f.svc.Submit(ctx, "session-1", validInput())
	require.NoError(t, err, "a failed broadcast must not fail the checkout")
	assert.False(t, result.NotificationSent)

	order, err := orders.NewRepository(f.db).FindByID(ctx, result.OrderID)
	require.NoError(t, err)
	assert.False(t, order.TelegramNotificationSent)

	// the cart survives so the storefront can retry
	assert.Equal(t, 1, f.carts.Get("session-1").Len())
}

func TestServiceSubmitValidatesContactInOrder(t *testing.T) {
	f := newCheckoutFixture(t, true)
	ctx := context.Background()

	cases := []struct {
		name  string
		input SubmitInput
		want  string
	}{
		{"missing name", SubmitInput{Phone: "0912345678", Address: "طرابلس"}, "name is required"},
		{"missing phone", SubmitInput{Name: "أحمد", Address: "طرابلس"}, "phone is required"},
		{"missing address", SubmitInput{Name: "أحمد", Phone: "0912345678"}, "address is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, "session-1", tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Contains(t, typed.Error(), tc.want)
		})
	}
	assert.Empty(t, f.notifier.orders, "invalid submissions never reach telegram")
}

func TestServiceSubmitRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, true)

	_, err := f.svc.Submit(context.Background(), "session-1", validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceSubmitRollsBackOnInsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t, true)
	ctx := context.Background()
	plenty := seedCheckoutProduct(t, f.db, "دهان داخلي", 4500, 20, true)
	scarce := seedCheckoutProduct(t, f.db, "معجون حوائط", 3000, 1, true)
	fillCart(f, "session-1", plenty, 2)
	fillCart(f, "session-1", scarce, 5)

	_, err := f.svc.Submit(ctx, "session-1", validInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Contains(t, typed.Error(), "معجون حوائط")

	// nothing persisted, no stock consumed, cart intact
	var orderCount int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	stored, err := product.NewRepository(f.db).FindByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Stock)
	assert.Equal(t, 2, f.carts.Get("session-1").Len())
	assert.Empty(t, f.notifier.orders)
}

func TestServiceSubmitRejectsInactiveProduct(t *testing.T) {
	f := newCheckoutFixture(t, true)
	ctx := context.Background()
	retired := seedCheckoutProduct(t, f.db, "دهان قديم", 4500, 20, false)
	fillCart(f, "session-1", retired, 1)

	_, err := f.svc.Submit(ctx, "session-1", validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestServiceSubmitReportsDrainedStock(t *testing.T) {
	f := newCheckoutFixture(t, true)
	ctx := context.Background()
	p := seedCheckoutProduct(t, f.db, "دهان داخلي", 4500, 11, true)
	fillCart(f, "session-1", p, 2)

	_, err := f.svc.Submit(ctx, "session-1", validInput())
	require.NoError(t, err)

	require.Len(t, f.notifier.lowStock, 1)
	require.Len(t, f.notifier.lowStock[0], 1)
	assert.Equal(t, p.ID, f.notifier.lowStock[0][0].ID)
	assert.Equal(t, 9, f.notifier.lowStock[0][0].Stock)
}
