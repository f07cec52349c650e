package domain

import "time"

// AgentStatus values follow the operational vocabulary used by the field
// teams.
type AgentStatus string

const (
	AgentActive    AgentStatus = "actif"
	AgentInactive  AgentStatus = "inactif"
	AgentSuspended AgentStatus = "suspendu"
)

func (s AgentStatus) Valid() bool {
	switch s {
	case AgentActive, AgentInactive, AgentSuspended:
		return true
	}
	return false
}

// Agent is a commercial delivery agent. AccountID links the agent to the
// credential record used for login.
type Agent struct {
	ID        string      `json:"id"`
	AccountID string      `json:"account_id"`
	LastName  string      `json:"last_name"`
	FirstName string      `json:"first_name"`
	Phone     string      `json:"phone,omitempty"`
	Tricycle  string      `json:"tricycle,omitempty"` // plate of the assigned tricycle, empty if none
	Status    AgentStatus `json:"status"`
	HiredAt   time.Time   `json:"hired_at"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
