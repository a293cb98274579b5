package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
	"github.com/sipeslibya/storefront-backend/pkg/pagination"
)

// Service exposes back-office customer operations. Customers themselves never
// log in; rows exist only because checkouts create them.
type Service interface {
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error)
	ListCustomers(ctx context.Context, input ListCustomersInput) (*ListResult, error)
	UpdateCustomer(ctx context.Context, customerID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	UpsertFromCheckout(ctx context.Context, input UpsertInput) (*models.Customer, error)
}

// CustomerDTO is the customer payload returned to back-office clients.
type CustomerDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      *string   `json:"email,omitempty"`
	Address    *string   `json:"address,omitempty"`
	OrderCount int64     `json:"order_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListCustomersInput captures pagination and search inputs.
type ListCustomersInput struct {
	Pagination pagination.Params
	Query      string
}

// ListResult is one page of customers.
type ListResult struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// UpdateCustomerInput carries back-office edits; nil fields are untouched.
type UpdateCustomerInput struct {
	Name    *string
	Email   *string
	Address *string
}

// UpsertInput carries the contact details captured at checkout.
type UpsertInput struct {
	Name    string
	Phone   string
	Email   *string
	Address *string
}

type service struct {
	repo *Repository
}

// NewService constructs a customer service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

// GetCustomer returns the customer with their order count.
func (s *service) GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	orderCount, err := s.repo.CountOrders(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer orders")
	}
	dto := newCustomerDTO(customer)
	dto.OrderCount = orderCount
	return dto, nil
}

// ListCustomers pages through the customer book.
func (s *service) ListCustomers(ctx context.Context, input ListCustomersInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.ListCustomers(ctx, customerListQuery{
		Pagination: input.Pagination,
		Query:      strings.TrimSpace(input.Query),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newCustomerDTO(&rows[i]))
	}
	return &ListResult{Customers: dtos, NextCursor: nextCursor}, nil
}

// UpdateCustomer applies back-office edits to a customer record. Phone is the
// upsert key from checkout and stays immutable here.
func (s *service) UpdateCustomer(ctx context.Context, customerID uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		customer.Name = name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	updated, err := s.repo.UpdateCustomer(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}
	orderCount, err := s.repo.CountOrders(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer orders")
	}
	dto := newCustomerDTO(updated)
	dto.OrderCount = orderCount
	return dto, nil
}

// UpsertFromCheckout records the buyer, keyed by phone.
func (s *service) UpsertFromCheckout(ctx context.Context, input UpsertInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	customer, err := s.repo.UpsertByPhone(ctx, &models.Customer{
		Name:    name,
		Phone:   phone,
		Email:   input.Email,
		Address: input.Address,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert customer")
	}
	return customer, nil
}

func newCustomerDTO(customer *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		Email:     customer.Email,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}
