package domain

import "time"

// OrderStatus tracks an order from placement to delivery.
type OrderStatus string

const (
	OrderPending   OrderStatus = "en_attente"
	OrderValidated OrderStatus = "validee"
	OrderInTransit OrderStatus = "en_cours"
	OrderDelivered OrderStatus = "livree"
	OrderCancelled OrderStatus = "annulee"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderValidated, OrderInTransit, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is a water order placed by an outlet. AgentID is set when an admin
// assigns the order to an agent, which also moves it to en_cours.
type Order struct {
	ID        string      `json:"id"`
	OutletID  string      `json:"outlet_id"`
	Quantity  int         `json:"quantity"`
	OrderedAt time.Time   `json:"ordered_at"`
	Status    OrderStatus `json:"status"`
	AgentID   string      `json:"agent_id,omitempty"` // empty until assigned
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
