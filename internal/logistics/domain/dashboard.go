package domain

// DashboardStats aggregates counters for the admin home screen.
type DashboardStats struct {
	TotalAgents       int   `json:"total_agents"`
	ActiveAgents      int   `json:"active_agents"`
	TotalOutlets      int   `json:"total_outlets"`
	TotalOrders       int   `json:"total_orders"`
	PendingOrders     int   `json:"pending_orders"`
	TotalDeliveries   int   `json:"total_deliveries"`
	DeliveriesToday   int   `json:"deliveries_today"`
	RevenueCentsToday int64 `json:"revenue_cents_today"`
}
