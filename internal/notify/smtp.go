package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig carries the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// FrontendURL is the base URL links in emails point at, e.g.
	// https://backoffice.essivi.tg.
	FrontendURL string
}

// SMTPNotifier sends mail through a relay using gomail.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) SendVerificationEmail(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(
		"Bienvenue sur ESSIVI.\n\nConfirmez votre adresse email en ouvrant ce lien :\n\n%s/verify-email?token=%s\n\nCe lien expire dans 24 heures.",
		n.cfg.FrontendURL, token)
	return n.send(ctx, to, "Confirmez votre adresse email", body)
}

func (n *SMTPNotifier) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(
		"Une reinitialisation de mot de passe a ete demandee pour ce compte.\n\n%s/reset-password?token=%s\n\nCe lien expire dans 1 heure. Si vous n'etes pas a l'origine de cette demande, ignorez ce message.",
		n.cfg.FrontendURL, token)
	return n.send(ctx, to, "Reinitialisation de mot de passe", body)
}

func (n *SMTPNotifier) SendInviteEmail(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(
		"Un compte a ete cree pour vous sur ESSIVI.\n\nChoisissez votre mot de passe en ouvrant ce lien :\n\n%s/accept-invite?token=%s\n\nCe lien expire dans 72 heures.",
		n.cfg.FrontendURL, token)
	return n.send(ctx, to, "Votre compte ESSIVI", body)
}

func (n *SMTPNotifier) SendOTPEmail(ctx context.Context, to, code string) error {
	body := fmt.Sprintf(
		"Votre code de connexion est : %s\n\nCe code expire dans 10 minutes.",
		code)
	return n.send(ctx, to, "Code de connexion", body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	return d.DialAndSend(m)
}
