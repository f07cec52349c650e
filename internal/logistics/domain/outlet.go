package domain

import "time"

// OutletType classifies a point of sale.
type OutletType string

const (
	OutletReseller   OutletType = "revendeur"
	OutletWholesaler OutletType = "grossiste"
	OutletIndividual OutletType = "particulier"
)

func (t OutletType) Valid() bool {
	switch t {
	case OutletReseller, OutletWholesaler, OutletIndividual:
		return true
	}
	return false
}

// OutletStatus mirrors AgentStatus but outlets are never suspended, only
// deactivated.
type OutletStatus string

const (
	OutletActive   OutletStatus = "actif"
	OutletInactive OutletStatus = "inactif"
)

func (s OutletStatus) Valid() bool {
	return s == OutletActive || s == OutletInactive
}

// Outlet is a client point of sale. AccountID is optional: some outlets are
// managed entirely by agents and have no login of their own.
type Outlet struct {
	ID        string       `json:"id"`
	AccountID string       `json:"account_id,omitempty"` // empty when the outlet has no credential record
	Name      string       `json:"name"`
	Manager   string       `json:"manager"`
	Phone     string       `json:"phone,omitempty"`
	Address   string       `json:"address,omitempty"`
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
	Type      OutletType   `json:"type"`
	Status    OutletStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
