// Package idp talks to the external identity provider that mints, refreshes
// and revokes tokens.
package idp

import (
	"context"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
)

// Error codes carried by Rejected. They follow the provider's exception
// names so clients that already switch on them keep working.
const (
	CodeNotAuthorized    = "NotAuthorizedException"
	CodeInvalidParameter = "InvalidParameterException"
	CodeLimitExceeded    = "LimitExceededException"
	CodeProviderError    = "InternalErrorException"
)

// Outcome is the provider's answer to a token request: either Accepted or
// Rejected. Switch on the concrete type; there are no other variants.
type Outcome interface {
	isOutcome()
}

// Accepted carries the tokens the provider issued.
type Accepted struct {
	Tokens domain.TokenSet
}

// Rejected is a refusal the provider explained. UserError marks refusals
// caused by the caller's input (bad credentials, expired refresh token).
type Rejected struct {
	Code      string
	Message   string
	UserError bool
}

func (Accepted) isOutcome() {}
func (Rejected) isOutcome() {}

// IdentityProvider is the subset of the provider the service depends on.
// Transport and protocol faults come back as errors; refusals as Rejected.
type IdentityProvider interface {
	InitiateAuth(ctx context.Context, username, password, sourceIP string) (Outcome, error)
	Refresh(ctx context.Context, refreshToken, sourceIP string) (Outcome, error)
	GlobalSignOut(ctx context.Context, accessToken string) error
}
