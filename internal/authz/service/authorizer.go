package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

// Authorizer combines signature validation with the revocation ledger and
// the user's rights.
type Authorizer struct {
	Validator *TokenValidator
	Ledger    *TokenLedger
	Rights    *RightsCache
}

// Authorize returns the full verdict for a bearer token. The error is only
// set for infrastructure faults; a rejected token is a result, not an error.
func (a *Authorizer) Authorize(ctx context.Context, token string) (domain.AuthorizationResult, error) {
	result := a.Validator.Validate(token)
	if !result.IsAuthenticated {
		return result, nil
	}

	var (
		blacklisted bool
		rights      []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blacklisted, err = a.Ledger.IsBlacklisted(gctx, result.JwtID)
		return err
	})
	g.Go(func() error {
		var err error
		rights, err = a.Rights.GetUserRights(gctx, result.UserUUID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AuthorizationResult{}, err
	}

	if blacklisted {
		slogx.FromContext(ctx).Info("blacklisted token presented",
			slog.String("jti", result.JwtID), slog.String("user_uuid", result.UserUUID))
		return result.Revoked(), nil
	}
	return result.WithRights(rights), nil
}
