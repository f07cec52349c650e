package domain

import "time"

// DeliveryStatus tracks a delivery run.
type DeliveryStatus string

const (
	DeliveryPreparing DeliveryStatus = "en_preparation"
	DeliveryEnRoute   DeliveryStatus = "en_route"
	DeliveryDone      DeliveryStatus = "livre"
	DeliveryFailed    DeliveryStatus = "echec"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPreparing, DeliveryEnRoute, DeliveryDone, DeliveryFailed:
		return true
	}
	return false
}

// Delivery records one delivery run by an agent to an outlet, optionally
// fulfilling an order. Amounts are stored in minor currency units to avoid
// float drift.
type Delivery struct {
	ID          string         `json:"id"`
	OrderID     string         `json:"order_id,omitempty"` // empty for ad-hoc deliveries
	AgentID     string         `json:"agent_id"`
	OutletID    string         `json:"outlet_id"`
	Quantity    int            `json:"quantity"`
	AmountCents int64          `json:"amount_cents"`
	DeliveredAt time.Time      `json:"delivered_at"`
	Status      DeliveryStatus `json:"status"`

	Validated   bool   `json:"validated"`
	ValidatedBy string `json:"validated_by,omitempty"` // account id of the validating admin, empty until validated

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
