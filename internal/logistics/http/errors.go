package http

import (
	"errors"
	"net/http"

	authservice "github.com/essivi/backoffice/internal/auth/service"
	"github.com/essivi/backoffice/internal/logistics/service"
	"github.com/essivi/backoffice/pkg/httpx"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "donnees invalides")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "ressource introuvable")
	case errors.Is(err, authservice.ErrNotOwner):
		httpx.WriteError(w, http.StatusForbidden, "acces refuse")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "erreur interne")
	}
}

// RequireCapabilities gates a route on the authorization capability set.
// AuthnMiddleware must run first so claims are in the context.
func RequireCapabilities(caps ...authservice.Capability) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := httpx.ClaimsFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "authentification requise")
				return
			}
			if err := authservice.Authorize(&claims, caps...); err != nil {
				switch {
				case errors.Is(err, authservice.ErrUnauthenticated):
					httpx.WriteError(w, http.StatusUnauthorized, "authentification requise")
				case errors.Is(err, authservice.ErrUnverified):
					httpx.WriteError(w, http.StatusForbidden, "verification de l'email requise")
				default:
					httpx.WriteError(w, http.StatusForbidden, "acces refuse")
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
