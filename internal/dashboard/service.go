package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sipeslibya/storefront-backend/internal/notify"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
	pkgerrors "github.com/sipeslibya/storefront-backend/pkg/errors"
)

// Service computes the aggregates shown on the back-office dashboard and
// feeds the daily Telegram report.
type Service interface {
	GetStats(ctx context.Context) (*StatsDTO, error)
	GetSalesChart(ctx context.Context, days int) (*SalesChartDTO, error)
	ReportStats(ctx context.Context) (notify.ReportStats, error)
}

// StatsDTO is the dashboard headline-numbers payload. Revenue figures are
// carried in cents alongside a decimal dinar rendering for display.
type StatsDTO struct {
	TotalProducts       int64           `json:"total_products"`
	TotalOrders         int64           `json:"total_orders"`
	TotalCustomers      int64           `json:"total_customers"`
	TotalRevenueCents   int64           `json:"total_revenue_cents"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	PendingOrders       int64           `json:"pending_orders"`
	LowStockProducts    int64           `json:"low_stock_products"`
	MonthlyRevenueCents int64           `json:"monthly_revenue_cents"`
	MonthlyRevenue      decimal.Decimal `json:"monthly_revenue"`
	WeeklyOrders        int64           `json:"weekly_orders"`
	NewMessages         int64           `json:"new_messages"`
	PendingReviews      int64           `json:"pending_reviews"`
}

// SalesChartPoint is one day of the sales series.
type SalesChartPoint struct {
	Date         string          `json:"date"`
	Orders       int64           `json:"orders"`
	RevenueCents int64           `json:"revenue_cents"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// SalesChartDTO is the daily sales series for the dashboard chart, oldest
// day first. Days without orders are filled with zero points.
type SalesChartDTO struct {
	Days   int               `json:"days"`
	Points []SalesChartPoint `json:"points"`
}

const (
	defaultChartDays = 30
	maxChartDays     = 90
)

type service struct {
	repo       *Repository
	lowStockAt int
	clock      func() time.Time
}

// NewService constructs a dashboard service instance. A non-positive
// lowStockAt falls back to the storefront default threshold.
func NewService(repo *Repository, lowStockAt int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if lowStockAt <= 0 {
		lowStockAt = 10
	}
	return &service{repo: repo, lowStockAt: lowStockAt, clock: time.Now}, nil
}

// GetStats assembles the headline numbers for the dashboard.
func (s *service) GetStats(ctx context.Context) (*StatsDTO, error) {
	now := s.clock().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	stats := &StatsDTO{}
	var err error

	if stats.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if stats.TotalOrders, err = s.repo.CountOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	if stats.TotalCustomers, err = s.repo.CountCustomers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}
	if stats.TotalRevenueCents, err = s.repo.SumRevenueCents(ctx, time.Time{}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	if stats.PendingOrders, err = s.repo.CountOrdersByStatus(ctx, enums.OrderStatusPending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}
	if stats.LowStockProducts, err = s.repo.CountLowStockProducts(ctx, s.lowStockAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low-stock products")
	}
	if stats.MonthlyRevenueCents, err = s.repo.SumRevenueCents(ctx, monthStart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum monthly revenue")
	}
	if stats.WeeklyOrders, err = s.repo.CountOrdersSince(ctx, weekAgo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count weekly orders")
	}
	if stats.NewMessages, err = s.repo.CountNewMessages(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count new messages")
	}
	if stats.PendingReviews, err = s.repo.CountPendingReviews(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending reviews")
	}

	stats.TotalRevenue = centsToDinars(stats.TotalRevenueCents)
	stats.MonthlyRevenue = centsToDinars(stats.MonthlyRevenueCents)
	return stats, nil
}

// GetSalesChart returns the daily order/revenue series for the last N days.
func (s *service) GetSalesChart(ctx context.Context, days int) (*SalesChartDTO, error) {
	if days <= 0 {
		days = defaultChartDays
	}
	if days > maxChartDays {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "chart window capped at %d days", maxChartDays)
	}

	now := s.clock().UTC()
	start := now.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	rows, err := s.repo.DailyOrderSeries(ctx, start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales series")
	}

	byDay := make(map[string]dailyPoint, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	points := make([]SalesChartPoint, 0, days)
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d).Format("2006-01-02")
		point := SalesChartPoint{Date: day, Revenue: decimal.Zero}
		if row, ok := byDay[day]; ok {
			point.Orders = row.OrderCount
			point.RevenueCents = row.RevenueCents
			point.Revenue = centsToDinars(row.RevenueCents)
		}
		points = append(points, point)
	}
	return &SalesChartDTO{Days: days, Points: points}, nil
}

// ReportStats gathers the figures the daily Telegram report renders.
func (s *service) ReportStats(ctx context.Context) (notify.ReportStats, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return notify.ReportStats{}, err
	}
	return notify.ReportStats{
		TotalProducts:       stats.TotalProducts,
		TotalOrders:         stats.TotalOrders,
		TotalCustomers:      stats.TotalCustomers,
		TotalRevenueCents:   stats.TotalRevenueCents,
		PendingOrders:       stats.PendingOrders,
		LowStockProducts:    stats.LowStockProducts,
		MonthlyRevenueCents: stats.MonthlyRevenueCents,
		WeeklyOrders:        stats.WeeklyOrders,
	}, nil
}

func centsToDinars(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}
