package service

import (
	"context"
	"time"

	"github.com/essivi/backoffice/internal/logistics/domain"
)

// DashboardStats aggregates counters for the admin home screen. Failures on
// any single counter fail the whole call; the dashboard is all-or-nothing.
func (s *LogisticsService) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var (
		stats domain.DashboardStats
		err   error
	)

	if stats.TotalAgents, err = s.Store.Agents().CountAgents(ctx, ""); err != nil {
		return domain.DashboardStats{}, err
	}
	if stats.ActiveAgents, err = s.Store.Agents().CountAgents(ctx, domain.AgentActive); err != nil {
		return domain.DashboardStats{}, err
	}
	if stats.TotalOutlets, err = s.Store.Outlets().CountOutlets(ctx); err != nil {
		return domain.DashboardStats{}, err
	}
	if stats.TotalOrders, err = s.Store.Orders().CountOrders(ctx, ""); err != nil {
		return domain.DashboardStats{}, err
	}
	if stats.PendingOrders, err = s.Store.Orders().CountOrders(ctx, domain.OrderPending); err != nil {
		return domain.DashboardStats{}, err
	}
	if stats.TotalDeliveries, err = s.Store.Deliveries().CountDeliveries(ctx); err != nil {
		return domain.DashboardStats{}, err
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	if stats.DeliveriesToday, err = s.Store.Deliveries().CountDeliveriesSince(ctx, startOfDay); err != nil {
		return domain.DashboardStats{}, err
	}
	if stats.RevenueCentsToday, err = s.Store.Deliveries().SumDeliveredAmountSince(ctx, startOfDay); err != nil {
		return domain.DashboardStats{}, err
	}

	return stats, nil
}

// AccountActivity returns the newest audit entries for one account.
func (s *LogisticsService) AccountActivity(ctx context.Context, accountID string, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Store.ActivityLog().ListAccountActivity(ctx, accountID, limit)
}

// RecentActivity returns the newest audit entries across all accounts.
func (s *LogisticsService) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Store.ActivityLog().ListRecentActivity(ctx, limit)
}
