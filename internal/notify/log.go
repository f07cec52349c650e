package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes messages to the logger instead of sending mail. Tokens
// show up in the log so the flows can be exercised end to end locally.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendVerificationEmail(ctx context.Context, to, token string) error {
	n.log.InfoContext(ctx, "verification email", "to", to, "token", token)
	return nil
}

func (n *LogNotifier) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	n.log.InfoContext(ctx, "password reset email", "to", to, "token", token)
	return nil
}

func (n *LogNotifier) SendInviteEmail(ctx context.Context, to, token string) error {
	n.log.InfoContext(ctx, "invite email", "to", to, "token", token)
	return nil
}

func (n *LogNotifier) SendOTPEmail(ctx context.Context, to, code string) error {
	n.log.InfoContext(ctx, "otp email", "to", to, "code", code)
	return nil
}
