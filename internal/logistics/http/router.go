// Package http exposes the logistics back office over JSON endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/essivi/backoffice/internal/auth/service"
	logistics "github.com/essivi/backoffice/internal/logistics/service"
	"github.com/essivi/backoffice/pkg/httpx"
	"github.com/essivi/backoffice/pkg/jwtx"
	"github.com/essivi/backoffice/pkg/slogx"
)

// Router holds shared dependencies for the logistics HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier jwtx.Verifier
	logger   *slog.Logger

	Service *logistics.LogisticsService
}

func NewRouter(verifier jwtx.Verifier, svc *logistics.LogisticsService, logger *slog.Logger) *Router {
	r := &Router{
		Mux:      http.NewServeMux(),
		verifier: verifier,
		logger:   logger,
		Service:  svc,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.ClientIPMiddleware(),
	}

	return r
}

// ServeHTTP applies the global middleware chain around the mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	authn := httpx.AuthnMiddleware(r.verifier)
	verified := RequireCapabilities(service.Verified())
	admin := RequireCapabilities(service.Verified(), service.HasRole("admin"))
	limit := httpx.RateLimitByAccount(httpx.LenientLimit)

	agents := &AgentHandler{Service: r.Service}
	r.Mux.Handle("POST /v1/logistics/agents",
		httpx.Chain(http.HandlerFunc(agents.Create), authn, admin, limit))
	r.Mux.Handle("GET /v1/logistics/agents",
		httpx.Chain(http.HandlerFunc(agents.List), authn, verified, limit))
	r.Mux.Handle("GET /v1/logistics/agents/{id}",
		httpx.Chain(http.HandlerFunc(agents.Get), authn, verified, limit))
	r.Mux.Handle("PUT /v1/logistics/agents/{id}",
		httpx.Chain(http.HandlerFunc(agents.Update), authn, admin, limit))
	r.Mux.Handle("POST /v1/logistics/agents/{id}/status",
		httpx.Chain(http.HandlerFunc(agents.UpdateStatus), authn, admin, limit))
	r.Mux.Handle("DELETE /v1/logistics/agents/{id}",
		httpx.Chain(http.HandlerFunc(agents.Delete), authn, admin, limit))

	outlets := &OutletHandler{Service: r.Service}
	r.Mux.Handle("POST /v1/logistics/outlets",
		httpx.Chain(http.HandlerFunc(outlets.Create), authn, verified, limit))
	r.Mux.Handle("GET /v1/logistics/outlets",
		httpx.Chain(http.HandlerFunc(outlets.List), authn, verified, limit))
	r.Mux.Handle("GET /v1/logistics/outlets/{id}",
		httpx.Chain(http.HandlerFunc(outlets.Get), authn, verified, limit))
	r.Mux.Handle("PUT /v1/logistics/outlets/{id}",
		httpx.Chain(http.HandlerFunc(outlets.Update), authn, verified, limit))
	r.Mux.Handle("DELETE /v1/logistics/outlets/{id}",
		httpx.Chain(http.HandlerFunc(outlets.Delete), authn, admin, limit))

	orders := &OrderHandler{Service: r.Service}
	r.Mux.Handle("POST /v1/logistics/orders",
		httpx.Chain(http.HandlerFunc(orders.Create), authn, verified, limit))
	r.Mux.Handle("GET /v1/logistics/orders",
		httpx.Chain(http.HandlerFunc(orders.List), authn, verified, limit))
	r.Mux.Handle("GET /v1/logistics/orders/{id}",
		httpx.Chain(http.HandlerFunc(orders.Get), authn, verified, limit))
	r.Mux.Handle("POST /v1/logistics/orders/{id}/assign",
		httpx.Chain(http.HandlerFunc(orders.Assign), authn, admin, limit))
	r.Mux.Handle("POST /v1/logistics/orders/{id}/status",
		httpx.Chain(http.HandlerFunc(orders.UpdateStatus), authn, admin, limit))
	r.Mux.Handle("DELETE /v1/logistics/orders/{id}",
		httpx.Chain(http.HandlerFunc(orders.Delete), authn, admin, limit))

	deliveries := &DeliveryHandler{Service: r.Service}
	r.Mux.Handle("POST /v1/logistics/deliveries",
		httpx.Chain(http.HandlerFunc(deliveries.Create), authn,
			RequireCapabilities(service.Verified(), service.HasRole("agent", "admin")), limit))
	r.Mux.Handle("GET /v1/logistics/deliveries",
		httpx.Chain(http.HandlerFunc(deliveries.List), authn, verified, limit))
	r.Mux.Handle("GET /v1/logistics/deliveries/{id}",
		httpx.Chain(http.HandlerFunc(deliveries.Get), authn, verified, limit))
	r.Mux.Handle("POST /v1/logistics/deliveries/{id}/status",
		httpx.Chain(http.HandlerFunc(deliveries.UpdateStatus), authn,
			RequireCapabilities(service.Verified(), service.HasRole("agent", "admin")), limit))
	r.Mux.Handle("POST /v1/logistics/deliveries/{id}/validate",
		httpx.Chain(http.HandlerFunc(deliveries.Validate), authn, admin, limit))

	dash := &DashboardHandler{Service: r.Service}
	r.Mux.Handle("GET /v1/logistics/dashboard/stats",
		httpx.Chain(http.HandlerFunc(dash.Stats), authn, admin, limit))
	r.Mux.Handle("GET /v1/logistics/activity",
		httpx.Chain(http.HandlerFunc(dash.RecentActivity), authn, admin, limit))
	r.Mux.Handle("GET /v1/logistics/activity/me",
		httpx.Chain(http.HandlerFunc(dash.MyActivity), authn, verified, limit))
}
