package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenUseAccess is the token_use value carried by access tokens. ID tokens
// carry "id" and must never be accepted as bearer credentials.
const TokenUseAccess = "access"

// AccessClaims is the payload of an identity provider access token.
type AccessClaims struct {
	jwt.RegisteredClaims

	// "access" or "id"
	TokenUse string `json:"token_use,omitempty"`

	// App client the token was minted for.
	ClientID string `json:"client_id,omitempty"`

	// Username of the authenticated user. Used as the user's UUID.
	Username string `json:"username,omitempty"`

	Scope    string `json:"scope,omitempty"`
	AuthTime int64  `json:"auth_time,omitempty"`
}

// NewAccessClaims builds access-token claims with a fresh jti.
func NewAccessClaims(issuer, clientID, username string, ttl time.Duration, now time.Time) AccessClaims {
	return AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenUse: TokenUseAccess,
		ClientID: clientID,
		Username: username,
		AuthTime: now.Unix(),
	}
}

// NewJTI returns a random UUID for the "jti" claim, the same shape the
// identity provider uses.
func NewJTI() string {
	return uuid.NewString()
}
