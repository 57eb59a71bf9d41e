package sqlite

import (
	"context"
	"fmt"

	"github.com/neomorfeo/allocq/internal/domain"
)

// Stats computes the user's dashboard aggregates from current storage state.
// Four queries over the same order set; nothing is cached.
func (r *OrderRepository) Stats(ctx context.Context, userID string) (domain.DashboardStats, error) {
	stats := domain.DashboardStats{OrdersByStage: make(map[domain.Stage]int)}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_cost), 0)
		 FROM orders WHERE user_id = ?`, userID,
	).Scan(&stats.TotalOrders, &stats.TotalInvested)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("counting orders: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT stage, COUNT(*) FROM orders WHERE user_id = ? GROUP BY stage`, userID,
	)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("counting orders by stage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return domain.DashboardStats{}, fmt.Errorf("scanning stage count: %w", err)
		}
		stats.OrdersByStage[domain.Stage(stage)] = count
	}
	if err := rows.Err(); err != nil {
		return domain.DashboardStats{}, err
	}

	recent, err := r.recentOrders(ctx, userID)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	stats.RecentOrders = recent

	return stats, nil
}

func (r *OrderRepository) recentOrders(ctx context.Context, userID string) ([]domain.RecentOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.user_id, o.offer_id, o.shares_requested, o.total_cost,
		        o.stage, o.created_at, o.updated_at, f.company_name, f.ticker
		 FROM orders o
		 INNER JOIN offers f ON f.id = o.offer_id
		 WHERE o.user_id = ?
		 ORDER BY o.created_at DESC
		 LIMIT 5`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent orders: %w", err)
	}
	defer rows.Close()

	var recent []domain.RecentOrder
	for rows.Next() {
		var ro domain.RecentOrder
		var stage, createdAt, updatedAt string

		err := rows.Scan(&ro.ID, &ro.UserID, &ro.OfferID, &ro.SharesRequested,
			&ro.TotalCost, &stage, &createdAt, &updatedAt,
			&ro.CompanyName, &ro.Ticker)
		if err != nil {
			return nil, fmt.Errorf("scanning recent order: %w", err)
		}

		ro.Stage = domain.Stage(stage)
		if ro.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if ro.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}

		recent = append(recent, ro)
	}

	return recent, rows.Err()
}
