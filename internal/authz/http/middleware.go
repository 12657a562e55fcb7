package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/aussiebroadwan/useraccount/pkg/httpx"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
)

type ctxKey struct{}

// AuthorizationFromContext returns the result stored by Authenticate.
func AuthorizationFromContext(ctx context.Context) (domain.AuthorizationResult, bool) {
	res, ok := ctx.Value(ctxKey{}).(domain.AuthorizationResult)
	return res, ok
}

// Authenticate authorizes the bearer token and stores the result in the
// request context. Unauthenticated callers get 401 with the error code as
// the message.
func Authenticate(a *service.Authorizer) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			res, err := a.Authorize(ctx, httpx.BearerToken(r))
			if err != nil {
				slogx.FromContext(ctx).Error("authorizing request failed", slog.Any("error", err))
				writeMessage(w, http.StatusInternalServerError, "An error occurred authorizing user", false)
				return
			}
			if !res.IsAuthenticated {
				writeMessage(w, http.StatusUnauthorized, string(res.ErrorCode), false)
				return
			}

			ctx = context.WithValue(ctx, ctxKey{}, res)
			ctx = httpx.WithUserID(ctx, res.UserUUID)
			ctx = slogx.WithUser(ctx, res.UserUUID, res.JwtID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRight rejects callers without right with 403. It must run after
// Authenticate.
func RequireRight(right string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := AuthorizationFromContext(r.Context())
			if !ok || !res.HasRight(right) {
				writeMessage(w, http.StatusForbidden, msgForbidden, true)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
