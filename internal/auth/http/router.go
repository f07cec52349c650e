// Package http exposes the credential lifecycle over JSON endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/essivi/backoffice/internal/auth/service"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/httpx"
	"github.com/essivi/backoffice/pkg/jwtx"
	"github.com/essivi/backoffice/pkg/slogx"
)

// Router holds shared dependencies for the auth HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier  jwtx.Verifier
	version   string
	startTime time.Time
	logger    *slog.Logger
	store     store.Store

	AuthService *service.AuthService
}

func NewRouter(
	verifier jwtx.Verifier,
	version string,
	st store.Store,
	authService *service.AuthService,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:         http.NewServeMux(),
		verifier:    verifier,
		version:     version,
		startTime:   time.Now(),
		logger:      logger,
		store:       st,
		AuthService: authService,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.ClientIPMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPublic()
	r.registerAccount()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP applies the global middleware chain around the mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPublic() {
	h := &AuthHandler{Service: r.AuthService}

	// Credential endpoints get the strict per-IP profile; token refresh sees
	// legitimate bursts and uses the moderate one.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.Register), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/verify-email",
		httpx.Chain(http.HandlerFunc(h.VerifyEmail), httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("POST /v1/auth/resend-verification",
		httpx.Chain(http.HandlerFunc(h.ResendVerification), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.Login), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/token/refresh",
		httpx.Chain(http.HandlerFunc(h.Refresh), httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.Logout), httpx.RateLimitByIP(httpx.ModerateLimit)))
	r.Mux.Handle("POST /v1/auth/password-reset",
		httpx.Chain(http.HandlerFunc(h.PasswordReset), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/password-reset-confirm",
		httpx.Chain(http.HandlerFunc(h.PasswordResetConfirm), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/accept-invite",
		httpx.Chain(http.HandlerFunc(h.AcceptInvite), httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerAccount() {
	h := &AuthHandler{Service: r.AuthService}
	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.Me), authn, httpx.RateLimitByAccount(httpx.LenientLimit)))
	r.Mux.Handle("POST /v1/auth/password/change",
		httpx.Chain(http.HandlerFunc(h.ChangePassword), authn,
			RequireCapabilities(service.Verified()),
			httpx.RateLimitByAccount(httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/2fa/send-otp",
		httpx.Chain(http.HandlerFunc(h.SendOTP), authn,
			RequireCapabilities(service.Verified()),
			httpx.RateLimitByAccount(httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/2fa/verify-otp",
		httpx.Chain(http.HandlerFunc(h.VerifyOTP), authn,
			RequireCapabilities(service.Verified()),
			httpx.RateLimitByAccount(httpx.StrictLimit)))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Service: r.AuthService}
	authn := httpx.AuthnMiddleware(r.verifier)
	admin := RequireCapabilities(service.Verified(), service.HasRole("admin"))

	r.Mux.Handle("POST /v1/admin/accounts",
		httpx.Chain(http.HandlerFunc(h.CreateAccount), authn, admin,
			httpx.RateLimitByAccount(httpx.ModerateLimit)))
	r.Mux.Handle("GET /v1/admin/accounts",
		httpx.Chain(http.HandlerFunc(h.ListAccounts), authn, admin,
			httpx.RateLimitByAccount(httpx.LenientLimit)))
	r.Mux.Handle("POST /v1/admin/accounts/{id}/activate",
		httpx.Chain(http.HandlerFunc(h.ActivateAccount), authn, admin,
			httpx.RateLimitByAccount(httpx.ModerateLimit)))
	r.Mux.Handle("POST /v1/admin/accounts/{id}/deactivate",
		httpx.Chain(http.HandlerFunc(h.DeactivateAccount), authn, admin,
			httpx.RateLimitByAccount(httpx.ModerateLimit)))
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.version))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.startTime, r.version, r.store))
}
