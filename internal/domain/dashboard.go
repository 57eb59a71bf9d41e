package domain

// DashboardStats aggregates one user's order activity. Every field is
// recomputed from current storage state on each call; there is no cache.
// TotalInvested sums total cost across ALL of the user's orders regardless of
// stage, rejected ones included (gross intent-to-invest).
type DashboardStats struct {
	TotalOrders   int
	TotalInvested float64
	OrdersByStage map[Stage]int
	RecentOrders  []RecentOrder
}

// RecentOrder is an order joined with its offer's display fields.
type RecentOrder struct {
	Order
	CompanyName string
	Ticker      string
}
