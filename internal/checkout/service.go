package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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
	"github.com/sipeslibya/storefront-backend/pkg/metrics"
)

const lowStockThreshold = 10

// Service turns a session cart plus contact details into a persisted order
// and broadcasts it to the staff Telegram channel.
type Service interface {
	Submit(ctx context.Context, sessionID string, input SubmitInput) (*SubmitResult, error)
}

// SubmitInput carries the storefront checkout form.
type SubmitInput struct {
	Name          string
	Phone         string
	Email         *string
	Address       string
	Notes         *string
	PaymentMethod enums.PaymentMethod
}

// SubmitResult reports the created order. NotificationSent false means the
// order was saved but the Telegram broadcast did not go out; the cart is kept
// so the storefront can retry without losing state.
type SubmitResult struct {
	OrderID          uuid.UUID         `json:"order_id"`
	Status           enums.OrderStatus `json:"status"`
	TotalCents       int               `json:"total_cents"`
	NotificationSent bool              `json:"notification_sent"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartRegistry interface {
	Get(sessionID string) *cart.Store
}

type orderNotifier interface {
	OrderSubmitted(ctx context.Context, order *models.Order) bool
	LowStock(ctx context.Context, products []models.Product) bool
}

type service struct {
	tx            txRunner
	carts         cartRegistry
	customerRepo  *customer.Repository
	orderRepo     *orders.Repository
	productRepo   *product.Repository
	notifier      orderNotifier
	metrics       *metrics.StorefrontMetrics
	logger        *logger.Logger
	notifyTimeout time.Duration
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Tx           txRunner
	Carts        cartRegistry
	CustomerRepo *customer.Repository
	OrderRepo    *orders.Repository
	ProductRepo  *product.Repository
	Notifier     orderNotifier
	Metrics      *metrics.StorefrontMetrics
	Logger       *logger.Logger
	Checkout     config.CheckoutConfig
}

// NewService wires the checkout orchestrator. Metrics may be nil.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart registry required")
	}
	if params.CustomerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	notifyTimeout := params.Checkout.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &service{
		tx:            params.Tx,
		carts:         params.Carts,
		customerRepo:  params.CustomerRepo,
		orderRepo:     params.OrderRepo,
		productRepo:   params.ProductRepo,
		notifier:      params.Notifier,
		metrics:       params.Metrics,
		logger:        params.Logger,
		notifyTimeout: notifyTimeout,
	}, nil
}

// Submit validates the contact details, snapshots the cart into an order
// inside one transaction, then broadcasts the order. The cart is cleared only
// when both the order and the broadcast succeed. NotificationSent in the
// result reports the delivery outcome; if persisting the flag afterwards
// fails the row keeps telegram_notification_sent=false until an admin resend
// reconciles it.
func (s *service) Submit(ctx context.Context, sessionID string, input SubmitInput) (*SubmitResult, error) {
	started := time.Now()

	if err := validateContact(&input); err != nil {
		s.metrics.ObserveCheckout("rejected", time.Since(started))
		return nil, err
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = enums.PaymentMethodCash
	}
	if !input.PaymentMethod.IsValid() {
		s.metrics.ObserveCheckout("rejected", time.Since(started))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	store := s.carts.Get(sessionID)
	lines := store.Lines()
	if len(lines) == 0 {
		s.metrics.ObserveCheckout("rejected", time.Since(started))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order, err := s.persistOrder(ctx, input, lines)
	if err != nil {
		s.metrics.ObserveCheckout("failed", time.Since(started))
		return nil, err
	}

	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	sent := s.notifier.OrderSubmitted(notifyCtx, order)
	if sent {
		if err := s.orderRepo.SetTelegramFlag(ctx, order.ID, true); err != nil {
			s.logger.Error(s.logger.WithField(ctx, "order_id", order.ID.String()), "record notification flag", err)
		} else {
			order.TelegramNotificationSent = true
		}
		store.Clear()
		s.reportLowStock(ctx, lines)
		s.metrics.ObserveCheckout("success", time.Since(started))
	} else {
		s.metrics.ObserveCheckout("saved_not_notified", time.Since(started))
	}

	return &SubmitResult{
		OrderID:          order.ID,
		Status:           order.Status,
		TotalCents:       order.TotalCents,
		NotificationSent: sent,
	}, nil
}

// persistOrder upserts the customer, reserves stock, and inserts the order in
// one transaction. Any failure rolls everything back; no notification is
// attempted for an order that does not exist.
func (s *service) persistOrder(ctx context.Context, input SubmitInput, lines []cart.Line) (*models.Order, error) {
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		address := strings.TrimSpace(input.Address)
		cust, err := s.customerRepo.WithTx(tx).UpsertByPhone(ctx, &models.Customer{
			ID:      uuid.New(),
			Name:    strings.TrimSpace(input.Name),
			Phone:   strings.TrimSpace(input.Phone),
			Email:   trimmedPtr(input.Email),
			Address: &address,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert customer")
		}

		productRepo := s.productRepo.WithTx(tx)
		ids := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		available, err := productRepo.FindActiveByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart products")
		}
		active := make(map[uuid.UUID]bool, len(available))
		for _, p := range available {
			active[p.ID] = true
		}

		items := make([]models.OrderItem, 0, len(lines))
		var total int
		for _, line := range lines {
			if !active[line.ProductID] {
				return pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s is no longer available", line.Name)
			}
			ok, err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserve stock")
			}
			if !ok {
				return pkgerrors.Newf(pkgerrors.CodeStateConflict, "insufficient stock for %s", line.Name)
			}
			items = append(items, models.OrderItem{
				ID:             uuid.New(),
				ProductID:      line.ProductID,
				Name:           line.Name,
				UnitPriceCents: line.UnitPriceCents,
				Quantity:       line.Quantity,
				LineTotalCents: line.LineTotalCents(),
			})
			total += line.LineTotalCents()
		}

		created, err := s.orderRepo.WithTx(tx).CreateOrder(ctx, &models.Order{
			ID:              uuid.New(),
			CustomerID:      cust.ID,
			CustomerName:    cust.Name,
			CustomerPhone:   cust.Phone,
			CustomerEmail:   trimmedPtr(input.Email),
			ShippingAddress: address,
			Notes:           trimmedPtr(input.Notes),
			Status:          enums.OrderStatusPending,
			PaymentStatus:   enums.PaymentStatusPending,
			PaymentMethod:   input.PaymentMethod,
			TotalCents:      total,
			Items:           items,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// reportLowStock pushes a follow-up notice when the order drained any product
// to the threshold. Best effort, like every Telegram delivery.
func (s *service) reportLowStock(ctx context.Context, lines []cart.Line) {
	low, err := s.productRepo.ListLowStock(ctx, lowStockThreshold)
	if err != nil {
		s.logger.Warn(ctx, "low stock check failed after checkout")
		return
	}
	ordered := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		ordered[line.ProductID] = true
	}
	drained := make([]models.Product, 0, len(low))
	for _, p := range low {
		if ordered[p.ID] {
			drained = append(drained, p)
		}
	}
	if len(drained) > 0 {
		s.notifier.LowStock(ctx, drained)
	}
}

// validateContact checks the fields in fixed order so the storefront can show
// one error at a time: name, then phone, then address.
func validateContact(input *SubmitInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	return nil
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
