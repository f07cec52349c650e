package store

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/essivi/backoffice/internal/auth/domain"
	logidomain "github.com/essivi/backoffice/internal/logistics/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// Sub-repositories are exposed as methods so transactional and plain access
// share one surface and nested transactions stay impossible by construction.
type Store interface {
	Accounts() Accounts
	VerificationTokens() VerificationTokens
	OTPCodes() OTPCodes
	Sessions() Sessions
	Agents() Agents
	Outlets() Outlets
	Orders() Orders
	Deliveries() Deliveries
	ActivityLog() ActivityLog

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Prefer this over
	// Tx for multi-step operations that must be atomic (token redemption,
	// session rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos, plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (authdomain.Account, error)

	// GetAccountByEmail looks up by normalized email. Used during login and
	// password reset requests.
	GetAccountByEmail(ctx context.Context, email string) (authdomain.Account, error)

	// CreateAccount inserts a new account (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateAccount(ctx context.Context, a authdomain.Account) error

	// UpdateProfile mutates first/last name and phone, bumps updated_at.
	UpdateProfile(ctx context.Context, accountID, firstName, lastName, phone string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID, newHash string) error

	// MarkVerified flips is_verified and bumps updated_at.
	MarkVerified(ctx context.Context, accountID string) error

	// SetActive toggles is_active (account suspension).
	SetActive(ctx context.Context, accountID string, active bool) error

	// RecordLogin sets last_login_at.
	RecordLogin(ctx context.Context, accountID string, at time.Time) error

	// EnableTwoFactor stores the TOTP secret and flips two_factor_enabled.
	EnableTwoFactor(ctx context.Context, accountID, secret string) error

	// DisableTwoFactor clears the secret and flag.
	DisableTwoFactor(ctx context.Context, accountID string) error

	// ListAccounts returns accounts ordered by creation date (newest first).
	// An empty role lists all accounts.
	ListAccounts(ctx context.Context, role string) ([]authdomain.Account, error)

	// DeleteAccount cascades to sessions, tokens and otp codes (per schema).
	DeleteAccount(ctx context.Context, accountID string) error

	// IsEmpty returns true when no accounts exist (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type VerificationTokens interface {
	// CreateToken stores a new verification token record (hash only, never
	// the raw value).
	CreateToken(ctx context.Context, t authdomain.VerificationToken) error

	// GetTokenByHash returns a token by its fingerprint regardless of state;
	// callers check expiry and purpose themselves to report precise errors.
	GetTokenByHash(ctx context.Context, hash string) (authdomain.VerificationToken, error)

	// ConsumeToken marks the token used if and only if it is still unused.
	// Returns ErrNotFound when the token was already consumed, so concurrent
	// redeemers lose deterministically.
	ConsumeToken(ctx context.Context, id string, usedAt time.Time) error
}

type OTPCodes interface {
	// CreateOTPCode stores a freshly generated code.
	CreateOTPCode(ctx context.Context, c authdomain.OTPCode) error

	// GetActiveOTPCode returns the live code matching account and value.
	// Lookup is scoped by account so codes never cross accounts.
	GetActiveOTPCode(ctx context.Context, accountID, code string) (authdomain.OTPCode, error)

	// ConsumeOTPCode marks a code used if still unused (same contract as
	// VerificationTokens.ConsumeToken).
	ConsumeOTPCode(ctx context.Context, id string, usedAt time.Time) error

	// InvalidateAccountOTPCodes consumes all live codes for an account before
	// issuing a new one.
	InvalidateAccountOTPCodes(ctx context.Context, accountID string, usedAt time.Time) error

	// DeleteExpiredOTPCodes is housekeeping.
	DeleteExpiredOTPCodes(ctx context.Context, before time.Time) error
}

type Sessions interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, s authdomain.Session) error

	// GetSessionByTokenHash returns the session by its refresh token
	// fingerprint.
	GetSessionByTokenHash(ctx context.Context, hash string) (authdomain.Session, error)

	// RotateSession swaps the refresh token hash atomically. Returns
	// ErrNotFound when the session was concurrently rotated or revoked.
	RotateSession(ctx context.Context, id, oldHash, newHash string, expiresAt time.Time) error

	// RevokeSession flips revoked=1.
	RevokeSession(ctx context.Context, id string) error

	// RevokeAccountSessions bulk revocation (password reset, suspension).
	RevokeAccountSessions(ctx context.Context, accountID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context, before time.Time) error
}

type Agents interface {
	CreateAgent(ctx context.Context, a logidomain.Agent) error
	GetAgentByID(ctx context.Context, id string) (logidomain.Agent, error)

	// GetAgentByAccountID resolves the agent profile behind a login.
	GetAgentByAccountID(ctx context.Context, accountID string) (logidomain.Agent, error)

	// ListAgents filters by status; empty status lists all.
	ListAgents(ctx context.Context, status logidomain.AgentStatus) ([]logidomain.Agent, error)

	UpdateAgent(ctx context.Context, a logidomain.Agent) error
	UpdateAgentStatus(ctx context.Context, id string, status logidomain.AgentStatus) error
	DeleteAgent(ctx context.Context, id string) error
	CountAgents(ctx context.Context, status logidomain.AgentStatus) (int, error)
}

type Outlets interface {
	CreateOutlet(ctx context.Context, o logidomain.Outlet) error
	GetOutletByID(ctx context.Context, id string) (logidomain.Outlet, error)
	GetOutletByAccountID(ctx context.Context, accountID string) (logidomain.Outlet, error)

	// ListOutlets filters by type and status; empty values mean no filter.
	ListOutlets(ctx context.Context, typ logidomain.OutletType, status logidomain.OutletStatus) ([]logidomain.Outlet, error)

	// SearchOutlets matches name, manager or phone against a substring.
	SearchOutlets(ctx context.Context, query string) ([]logidomain.Outlet, error)

	UpdateOutlet(ctx context.Context, o logidomain.Outlet) error
	DeleteOutlet(ctx context.Context, id string) error
	CountOutlets(ctx context.Context) (int, error)
}

type Orders interface {
	CreateOrder(ctx context.Context, o logidomain.Order) error
	GetOrderByID(ctx context.Context, id string) (logidomain.Order, error)

	// ListOrders filters by status and outlet; empty values mean no filter.
	ListOrders(ctx context.Context, status logidomain.OrderStatus, outletID string) ([]logidomain.Order, error)

	// ListAgentOrders returns orders assigned to one agent.
	ListAgentOrders(ctx context.Context, agentID string) ([]logidomain.Order, error)

	UpdateOrderStatus(ctx context.Context, id string, status logidomain.OrderStatus) error

	// AssignAgent sets the delivering agent and bumps updated_at.
	AssignAgent(ctx context.Context, orderID, agentID string) error

	DeleteOrder(ctx context.Context, id string) error
	CountOrders(ctx context.Context, status logidomain.OrderStatus) (int, error)
}

type Deliveries interface {
	CreateDelivery(ctx context.Context, d logidomain.Delivery) error
	GetDeliveryByID(ctx context.Context, id string) (logidomain.Delivery, error)

	// ListDeliveries filters by status and agent; empty values mean no filter.
	ListDeliveries(ctx context.Context, status logidomain.DeliveryStatus, agentID string) ([]logidomain.Delivery, error)

	UpdateDeliveryStatus(ctx context.Context, id string, status logidomain.DeliveryStatus) error

	// ValidateDelivery marks the delivery validated by an admin. Returns
	// ErrNotFound when already validated.
	ValidateDelivery(ctx context.Context, id, validatedBy string, at time.Time) error

	CountDeliveries(ctx context.Context) (int, error)
	CountDeliveriesSince(ctx context.Context, since time.Time) (int, error)

	// SumDeliveredAmountSince totals amount_cents of delivered runs since a
	// point in time (dashboard revenue).
	SumDeliveredAmountSince(ctx context.Context, since time.Time) (int64, error)
}

type ActivityLog interface {
	// AppendActivity writes an audit record. Append-only, no updates.
	AppendActivity(ctx context.Context, entry logidomain.ActivityLog) error

	// ListAccountActivity returns the newest entries for an account, capped
	// at limit.
	ListAccountActivity(ctx context.Context, accountID string, limit int) ([]logidomain.ActivityLog, error)

	// ListRecentActivity returns the newest entries across all accounts.
	ListRecentActivity(ctx context.Context, limit int) ([]logidomain.ActivityLog, error)
}
