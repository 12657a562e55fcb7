package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/internal/authz/idp"
	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/aussiebroadwan/useraccount/pkg/httpx"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
)

// ValidateTokenHandler serves POST /auth/validate-token. Other services call
// it to authorize their own requests, so an unauthenticated verdict is still
// a 200.
type ValidateTokenHandler struct {
	Authorizer *service.Authorizer
}

// ServeHTTP godoc
//
//	@Summary		Validate access token
//	@Description	Returns the authorization verdict for the bearer token, including the user's rights
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	domain.AuthorizationResult
//	@Failure		500	{object}	httpx.Message
//	@Router			/auth/validate-token [post].
func (h *ValidateTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.Authorizer.Authorize(r.Context(), httpx.BearerToken(r))
	if err != nil {
		slogx.FromContext(r.Context()).Error("validate token failed", slog.Any("error", err))
		writeInternalError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Exchanges email and password for tokens at the identity provider and records the access token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	httpx.Message
//	@Failure		429		{object}	httpx.Message
//	@Failure		500		{object}	httpx.Message
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, msgInvalidRequest, true)
		return
	}

	out, err := h.Sessions.Login(ctx, req.Email, req.Password, httpx.ClientIP(r))
	if err != nil {
		slogx.FromContext(ctx).Error("login failed", slog.Any("error", err))
		writeInternalError(w)
		return
	}

	switch o := out.(type) {
	case idp.Rejected:
		writeRejected(w, o)
	case idp.Accepted:
		httpx.WriteJSON(w, http.StatusOK, LoginResponse{AuthenticationResult: AuthenticationResult{
			AccessToken:  o.Tokens.AccessToken,
			RefreshToken: o.Tokens.RefreshToken,
			TokenType:    o.Tokens.TokenType,
			ExpiresIn:    o.Tokens.ExpiresIn,
		}})
	}
}

// RefreshHandler serves POST /auth/refresh-token. The current access token
// comes in the Authorization header and may be expired.
type RefreshHandler struct {
	Refresh *service.RefreshService
}

// ServeHTTP godoc
//
//	@Summary		Refresh access token
//	@Description	Trades a refresh token for a new access token. The access token presented must not be blacklisted and must be less than 2 hours old
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	RefreshResponse
//	@Failure		400		{object}	httpx.Message
//	@Failure		500		{object}	httpx.Message
//	@Router			/auth/refresh-token [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, msgInvalidRequest, true)
		return
	}

	out, err := h.Refresh.Refresh(ctx, req.RefreshToken, httpx.BearerToken(r), httpx.ClientIP(r))
	switch {
	case errors.Is(err, service.ErrAccessTokenNotSuitable):
		writeMessage(w, http.StatusBadRequest, string(domain.AccessTokenNotSuitable), false)
		return
	case errors.Is(err, service.ErrAccessTokenNotIssuedToUser):
		writeMessage(w, http.StatusBadRequest, string(domain.AccessTokenNotIssuedToUser), false)
		return
	case err != nil:
		slogx.FromContext(ctx).Error("refresh failed", slog.Any("error", err))
		writeInternalError(w)
		return
	}

	switch o := out.(type) {
	case idp.Rejected:
		writeRejected(w, o)
	case idp.Accepted:
		httpx.WriteJSON(w, http.StatusOK, RefreshResponse{AccessToken: o.Tokens.AccessToken})
	}
}

// SignOutHandler serves POST /auth/signout behind Authenticate.
type SignOutHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Sign out
//	@Description	Signs the user out at the identity provider and blacklists the access token
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200
//	@Failure		401	{object}	httpx.Message
//	@Failure		500	{object}	httpx.Message
//	@Router			/auth/signout [post].
func (h *SignOutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.Sessions.SignOut(ctx, httpx.BearerToken(r)); err != nil {
		slogx.FromContext(ctx).Error("sign out failed", slog.Any("error", err))
		writeInternalError(w)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
}
