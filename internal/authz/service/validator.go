package service

import (
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
)

// TokenValidator decides whether a bearer token is authentic. It does no
// I/O, so it never fails: every outcome is an AuthorizationResult.
type TokenValidator struct {
	verifier *jwtx.Verifier
	client   *domain.ClientAppSetting
	issuer   string
	logger   *slog.Logger
}

// ValidatorConfig holds the immutable inputs to a TokenValidator.
type ValidatorConfig struct {
	Keys       *jwtx.KeySet
	Client     *domain.ClientAppSetting // nil when not configured
	Region     string
	IssuerHost string // defaults to domain.DefaultIssuerHost
	Options    jwtx.VerifyOptions
}

func NewTokenValidator(cfg ValidatorConfig, logger *slog.Logger) *TokenValidator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &TokenValidator{
		verifier: jwtx.NewVerifier(cfg.Keys, cfg.Options),
		client:   cfg.Client,
		logger:   logger,
	}
	if cfg.Client != nil {
		v.issuer = cfg.Client.ExpectedIssuer(cfg.IssuerHost, cfg.Region)
	}
	return v
}

// Validate runs the checks in a fixed order; the first failure wins.
func (v *TokenValidator) Validate(token string) domain.AuthorizationResult {
	if token == "" {
		return domain.Unauthenticated(domain.TokenNotProvided)
	}

	decoded, err := jwtx.Decode(token)
	if err != nil {
		return domain.Unauthenticated(domain.FailedToDecodeToken)
	}

	if v.client == nil {
		v.logger.Error("client app settings are not configured")
		return domain.Unauthenticated(domain.ClientAppSettingsMissing)
	}

	if decoded.Claims.TokenUse != jwtx.TokenUseAccess {
		return domain.Unauthenticated(domain.TokenUseMismatch)
	}

	if decoded.Claims.Issuer != v.issuer {
		return domain.Unauthenticated(domain.TokenIssuerNotAuthorized)
	}

	claims, err := v.verifier.Verify(token)
	switch {
	case err == nil && (claims.Username == "" || claims.ID == ""):
		return domain.Unauthenticated(domain.TokenNotValid)
	case err == nil:
		return domain.Authenticated(v.client.Name, claims.Username, claims.ID)
	case errors.Is(err, jwtx.ErrExpired):
		// Signature checked out, only the clock is against it.
		return domain.Expired(decoded.Claims.Username, decoded.Claims.ID)
	default:
		v.logger.Debug("token verification failed", "kid", decoded.Kid, "error", err)
		return domain.Unauthenticated(domain.TokenNotValid)
	}
}
