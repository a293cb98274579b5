package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
)

// Service exposes back-office order operations.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	UpdatePayment(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, method enums.PaymentMethod) (*OrderDTO, error)
	ResendNotification(ctx context.Context, orderID uuid.UUID) (bool, error)
}

type orderNotifier interface {
	OrderStatusChanged(ctx context.Context, order *models.Order) bool
	OrderResent(ctx context.Context, order *models.Order) bool
}

type service struct {
	repo     *Repository
	notifier orderNotifier
	logger   *logger.Logger
}

// NewService constructs an order service instance.
func NewService(repo *Repository, notifier orderNotifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("order notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, notifier: notifier, logger: logg}, nil
}

// GetOrder returns one order with its line items.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

// ListOrders pages through orders.
func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*ListResult, error) {
	if input.Filters.Status != nil && !input.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
	}
	rows, nextCursor, err := s.repo.ListOrders(ctx, orderListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewOrderDTO(&rows[i]))
	}
	return &ListResult{Orders: dtos, NextCursor: nextCursor}, nil
}

// UpdateStatus moves the order along its lifecycle. The customer-facing status
// notice is best effort; a failed broadcast never rolls the transition back.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return NewOrderDTO(order), nil
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", order.Status, target)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = target

	s.notifier.OrderStatusChanged(ctx, order)
	return NewOrderDTO(order), nil
}

// UpdatePayment sets the payment bookkeeping fields.
func (s *service) UpdatePayment(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, method enums.PaymentMethod) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePayment(ctx, orderID, status, method); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment")
	}
	order.PaymentStatus = status
	order.PaymentMethod = method
	return NewOrderDTO(order), nil
}

// ResendNotification re-broadcasts the order to the staff channel, typically
// after the original submission broadcast failed.
func (s *service) ResendNotification(ctx context.Context, orderID uuid.UUID) (bool, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return false, err
	}

	sent := s.notifier.OrderResent(ctx, order)
	if sent && !order.TelegramNotificationSent {
		if err := s.repo.SetTelegramFlag(ctx, orderID, true); err != nil {
			s.logger.Error(s.logger.WithField(ctx, "order_id", orderID.String()), "record resend flag", err)
		}
	}
	return sent, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
