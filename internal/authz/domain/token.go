package domain

import "time"

// IssuedToken records that a token was minted for a user, so the refresh
// path can tell how old it is.
type IssuedToken struct {
	JTI       string
	UserUUID  string
	SourceIP  string
	CreatedAt time.Time
}

// BlacklistedToken marks a jti as revoked. Rows are only removed by the
// retention sweep, after the token could no longer be refreshed anyway.
type BlacklistedToken struct {
	JTI       string
	CreatedAt time.Time
}

// TokenSet is what the identity provider hands back on login or refresh.
type TokenSet struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"` // seconds
}

// RightSystem gates maintenance endpoints.
const RightSystem = "system"
