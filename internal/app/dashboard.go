package app

import (
	"context"

	"github.com/neomorfeo/allocq/internal/domain"
)

// DashboardService derives read-only statistics from the order store. It
// never writes; every call recomputes from current state.
type DashboardService struct {
	orders domain.OrderRepository
}

// NewDashboardService creates a service with the given repository.
func NewDashboardService(orders domain.OrderRepository) *DashboardService {
	return &DashboardService{orders: orders}
}

// Stats returns the user's dashboard aggregates: order count, total invested
// across all stages, per-stage counts (absent stages omitted), and the five
// most recent orders joined with offer display fields.
func (s *DashboardService) Stats(ctx context.Context, userID string) (domain.DashboardStats, error) {
	return s.orders.Stats(ctx, userID)
}
