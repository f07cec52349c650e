package http

import (
	"errors"
	"net/http"

	"github.com/essivi/backoffice/internal/auth/service"
	"github.com/essivi/backoffice/internal/store"
	"github.com/essivi/backoffice/pkg/httpx"
)

// writeServiceError maps service sentinels onto envelope responses. Anything
// unrecognized is a 500 with no internal detail leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	var fieldErrs *service.FieldErrors
	if errors.As(err, &fieldErrs) {
		httpx.WriteFieldErrors(w, http.StatusBadRequest, "donnees invalides", fieldErrs.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusBadRequest, "email ou mot de passe incorrect")
	case errors.Is(err, service.ErrAccountInactive):
		httpx.WriteError(w, http.StatusForbidden, "compte desactive")
	case errors.Is(err, service.ErrAccountUnverified):
		httpx.WriteError(w, http.StatusForbidden, "compte non verifie")
	case errors.Is(err, service.ErrDuplicateEmail):
		// Generic wording; the endpoint must not confirm which emails exist.
		httpx.WriteError(w, http.StatusBadRequest, "inscription impossible avec ces informations")
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenUsed),
		errors.Is(err, service.ErrTokenExpired):
		// One message for all three failure modes; the response must not
		// tell a guesser whether a token exists, was consumed or lapsed.
		httpx.WriteError(w, http.StatusBadRequest, "jeton invalide ou expire")
	case errors.Is(err, service.ErrInvalidOTP):
		httpx.WriteError(w, http.StatusBadRequest, "code invalide ou expire")
	case errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteError(w, http.StatusUnauthorized, "session invalide ou expiree")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "ressource introuvable")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "erreur interne")
	}
}

// writeAuthzError maps gate failures to 401/403.
func writeAuthzError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, "authentification requise")
	case errors.Is(err, service.ErrUnverified):
		httpx.WriteError(w, http.StatusForbidden, "verification de l'email requise")
	case errors.Is(err, service.ErrWrongRole), errors.Is(err, service.ErrNotOwner):
		httpx.WriteError(w, http.StatusForbidden, "acces refuse")
	default:
		httpx.WriteError(w, http.StatusForbidden, "acces refuse")
	}
}

// RequireCapabilities gates a route on the authorization capability set.
// AuthnMiddleware must run first so claims are in the context.
func RequireCapabilities(caps ...service.Capability) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := httpx.ClaimsFromContext(r.Context())
			if !ok {
				writeAuthzError(w, service.ErrUnauthenticated)
				return
			}
			if err := service.Authorize(&claims, caps...); err != nil {
				writeAuthzError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
