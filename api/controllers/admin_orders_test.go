package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/internal/orders"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
)

type stubOrdersService struct {
	order      *orders.OrderDTO
	list       *orders.ListResult
	err        error
	lastStatus enums.OrderStatus
	resent     bool
}

func (s *stubOrdersService) GetOrder(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) ListOrders(ctx context.Context, input orders.ListOrdersInput) (*orders.ListResult, error) {
	return s.list, s.err
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*orders.OrderDTO, error) {
	s.lastStatus = target
	return s.order, s.err
}

func (s *stubOrdersService) UpdatePayment(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, method enums.PaymentMethod) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) ResendNotification(ctx context.Context, orderID uuid.UUID) (bool, error) {
	return s.resent, s.err
}

func orderRequestWithParam(method, target, param, value string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{order: &orders.OrderDTO{ID: orderID, Status: enums.OrderStatusConfirmed}}
	handler := AdminUpdateOrderStatus(svc, nil)

	body := []byte(`{"status":"confirmed"}`)
	req := orderRequestWithParam(http.MethodPatch, "/api/v1/admin/orders/"+orderID.String()+"/status", "orderID", orderID.String(), body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastStatus != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected status %q", svc.lastStatus)
	}
}

func TestAdminUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	orderID := uuid.New()
	handler := AdminUpdateOrderStatus(&stubOrdersService{}, nil)

	body := []byte(`{"status":"teleported"}`)
	req := orderRequestWithParam(http.MethodPatch, "/api/v1/admin/orders/"+orderID.String()+"/status", "orderID", orderID.String(), body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminUpdateOrderStatusRejectsBadID(t *testing.T) {
	handler := AdminUpdateOrderStatus(&stubOrdersService{}, nil)

	req := orderRequestWithParam(http.MethodPatch, "/api/v1/admin/orders/not-a-uuid/status", "orderID", "not-a-uuid", []byte(`{"status":"confirmed"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminGetOrderNotFound(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := AdminGetOrder(svc, nil)

	req := orderRequestWithParam(http.MethodGet, "/api/v1/admin/orders/"+orderID.String(), "orderID", orderID.String(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestAdminListOrdersRejectsBadStatusFilter(t *testing.T) {
	handler := AdminListOrders(&stubOrdersService{list: &orders.ListResult{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders?status=warp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
