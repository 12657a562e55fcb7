package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/internal/authz/idp"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
)

// DefaultRefreshMaxAge is how long after issue an access token may still
// be traded in.
const DefaultRefreshMaxAge = 2 * time.Hour

var (
	ErrAccessTokenNotSuitable     = errors.New(string(domain.AccessTokenNotSuitable))
	ErrAccessTokenNotIssuedToUser = errors.New(string(domain.AccessTokenNotIssuedToUser))
	ErrProviderIssuedNoToken      = errors.New("identity provider returned no access token")
)

// RefreshService exchanges a refresh token for new tokens, provided the
// access token presented alongside it is recent, unrevoked and belongs to
// the same user the provider issues the new token for.
type RefreshService struct {
	Validator *TokenValidator
	Ledger    *TokenLedger
	Provider  idp.IdentityProvider

	// MaxAge defaults to DefaultRefreshMaxAge. Compared in whole hours.
	MaxAge time.Duration
}

func (s *RefreshService) maxAgeHours() int {
	if s.MaxAge <= 0 {
		return wholeHours(DefaultRefreshMaxAge)
	}
	return wholeHours(s.MaxAge)
}

// IsEligible reports whether old may be used to refresh. The token must be
// authentic (expiry is forgiven), not blacklisted, and issued less than
// MaxAge ago. A token the ledger never recorded is not eligible.
func (s *RefreshService) IsEligible(ctx context.Context, old domain.AuthorizationResult) (bool, error) {
	if !old.IsAuthenticated && old.ErrorCode != domain.TokenExpired {
		return false, nil
	}

	blacklisted, err := s.Ledger.IsBlacklisted(ctx, old.JwtID)
	if err != nil {
		return false, err
	}
	if blacklisted {
		return false, nil
	}

	age, found, err := s.Ledger.IssuedAgeHours(ctx, old.JwtID)
	if err != nil {
		return false, err
	}
	return found && age < s.maxAgeHours(), nil
}

// Refresh runs the full exchange. A provider refusal comes back as an
// idp.Rejected outcome; policy refusals as ErrAccessTokenNotSuitable or
// ErrAccessTokenNotIssuedToUser. On success the old jti is blacklisted and
// the new one recorded before the tokens are returned.
func (s *RefreshService) Refresh(ctx context.Context, refreshToken, accessToken, sourceIP string) (idp.Outcome, error) {
	log := slogx.FromContext(ctx)

	old := s.Validator.Validate(accessToken)
	ok, err := s.IsEligible(ctx, old)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Info("refresh refused: access token not suitable",
			slog.String("jti", old.JwtID), slog.String("error_code", string(old.ErrorCode)))
		return nil, ErrAccessTokenNotSuitable
	}

	out, err := s.Provider.Refresh(ctx, refreshToken, sourceIP)
	if err != nil {
		log.Error("identity provider refresh failed", slog.Any("error", err))
		return nil, fmt.Errorf("provider refresh: %w", err)
	}

	var tokens domain.TokenSet
	switch o := out.(type) {
	case idp.Rejected:
		log.Info("identity provider refused refresh", slog.String("code", o.Code))
		return o, nil
	case idp.Accepted:
		tokens = o.Tokens
	default:
		return nil, fmt.Errorf("provider refresh: unexpected outcome %T", out)
	}

	if tokens.AccessToken == "" {
		return nil, ErrProviderIssuedNoToken
	}

	issued, err := jwtx.Decode(tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("decode refreshed token: %w", err)
	}

	// The refresh token must belong to the same user as the access token.
	if issued.Claims.Username != old.UserUUID {
		log.Warn("refresh token issued to a different user",
			slog.String("jti", old.JwtID), slog.String("user_uuid", old.UserUUID))
		return nil, ErrAccessTokenNotIssuedToUser
	}

	if err := s.Ledger.RotateToken(ctx, old.JwtID, issued.Claims.ID, issued.Claims.Username, sourceIP); err != nil {
		return nil, err
	}

	log.Info("token refreshed",
		slog.String("old_jti", old.JwtID), slog.String("new_jti", issued.Claims.ID), slog.String("user_uuid", old.UserUUID))
	return idp.Accepted{Tokens: tokens}, nil
}
