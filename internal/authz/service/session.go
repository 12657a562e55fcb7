package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/useraccount/internal/authz/idp"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
)

// SessionService covers the two ends of a session: recording tokens handed
// out at login, and revoking them at sign-out.
type SessionService struct {
	Authorizer *Authorizer
	Ledger     *TokenLedger
	Provider   idp.IdentityProvider
}

// Login forwards credentials to the provider and, when it issues tokens,
// records the access token's jti so it can later be refreshed.
func (s *SessionService) Login(ctx context.Context, username, password, sourceIP string) (idp.Outcome, error) {
	out, err := s.Provider.InitiateAuth(ctx, username, password, sourceIP)
	if err != nil {
		return nil, fmt.Errorf("provider login: %w", err)
	}

	acc, ok := out.(idp.Accepted)
	if !ok {
		return out, nil
	}
	if acc.Tokens.AccessToken == "" {
		return nil, ErrProviderIssuedNoToken
	}

	d, err := jwtx.Decode(acc.Tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("decode issued token: %w", err)
	}
	if _, err := s.Ledger.InsertIssuedToken(ctx, d.Claims.ID, d.Claims.Username, sourceIP); err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("user logged in",
		slog.String("user_uuid", d.Claims.Username), slog.String("jti", d.Claims.ID))
	return acc, nil
}

// SignOut signs the user out at the provider and blacklists the token. A
// token that is not currently valid is left alone and reported false.
func (s *SessionService) SignOut(ctx context.Context, accessToken string) (bool, error) {
	res, err := s.Authorizer.Authorize(ctx, accessToken)
	if err != nil {
		return false, err
	}
	if !res.IsAuthenticated {
		return false, nil
	}

	if err := s.Provider.GlobalSignOut(ctx, accessToken); err != nil {
		slogx.FromContext(ctx).Error("provider sign out failed", slog.String("jti", res.JwtID), slog.Any("error", err))
		return false, fmt.Errorf("provider sign out: %w", err)
	}
	if _, err := s.Ledger.InsertBlacklistedToken(ctx, res.JwtID); err != nil {
		return false, err
	}

	slogx.FromContext(ctx).Info("user signed out",
		slog.String("user_uuid", res.UserUUID), slog.String("jti", res.JwtID))
	return true, nil
}
