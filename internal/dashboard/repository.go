package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
)

// Repository runs the aggregate queries behind the back-office dashboard.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountProducts reports how many active products exist.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&count).
		Error
	return count, err
}

// CountLowStockProducts reports active products at or below the threshold.
func (r *Repository) CountLowStockProducts(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND stock <= ?", true, threshold).
		Count(&count).
		Error
	return count, err
}

// CountOrders reports all orders ever placed.
func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

// CountOrdersByStatus reports orders in the given status.
func (r *Repository) CountOrdersByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Count(&count).
		Error
	return count, err
}

// CountOrdersSince reports orders created at or after the cutoff.
func (r *Repository) CountOrdersSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ?", cutoff).
		Count(&count).
		Error
	return count, err
}

// CountCustomers reports all customers ever recorded.
func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

// CountNewMessages reports unread contact messages.
func (r *Repository) CountNewMessages(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("status = ?", enums.MessageStatusNew).
		Count(&count).
		Error
	return count, err
}

// CountPendingReviews reports reviews awaiting moderation.
func (r *Repository) CountPendingReviews(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("is_active = ?", false).
		Count(&count).
		Error
	return count, err
}

// SumRevenueCents totals non-cancelled order amounts created at or after the
// cutoff. A zero cutoff sums everything.
func (r *Repository) SumRevenueCents(ctx context.Context, cutoff time.Time) (int64, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status <> ?", enums.OrderStatusCancelled)
	if !cutoff.IsZero() {
		qb = qb.Where("created_at >= ?", cutoff)
	}
	var total *int64
	if err := qb.Select("SUM(total_cents)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

type dailyPoint struct {
	Day          string
	OrderCount   int64
	RevenueCents int64
}

// DailyOrderSeries returns per-day order counts and revenue since the cutoff,
// oldest day first. Cancelled orders stay out of the series.
func (r *Repository) DailyOrderSeries(ctx context.Context, cutoff time.Time) ([]dailyPoint, error) {
	var rows []dailyPoint
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS order_count, SUM(total_cents) AS revenue_cents").
		Where("status <> ? AND created_at >= ?", enums.OrderStatusCancelled, cutoff).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).
		Error
	return rows, err
}
