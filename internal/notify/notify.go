// Package notify delivers account emails. The SMTP notifier is used in
// deployment; the log notifier stands in for local development so the
// lifecycle flows work without a mail relay.
package notify

import "context"

// Notifier sends account lifecycle messages. Implementations must not block
// beyond the context deadline.
type Notifier interface {
	// SendVerificationEmail carries the raw verification token, rendered as
	// a confirmation link.
	SendVerificationEmail(ctx context.Context, to, token string) error

	// SendPasswordResetEmail carries the raw reset token.
	SendPasswordResetEmail(ctx context.Context, to, token string) error

	// SendInviteEmail carries the raw invite token for admin-created
	// accounts.
	SendInviteEmail(ctx context.Context, to, token string) error

	// SendOTPEmail carries a short-lived numeric login code.
	SendOTPEmail(ctx context.Context, to, code string) error
}
