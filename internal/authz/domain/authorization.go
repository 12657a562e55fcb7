package domain

// ErrorCode names the reason a token was not accepted. The string values are
// part of the wire contract and end up in 401 response bodies.
type ErrorCode string

const (
	TokenNotProvided           ErrorCode = "TokenNotProvided"
	FailedToDecodeToken        ErrorCode = "FailedToDecodeToken"
	ClientAppSettingsMissing   ErrorCode = "ClientAppSettingsMissing"
	TokenUseMismatch           ErrorCode = "TokenUseMismatch"
	TokenIssuerNotAuthorized   ErrorCode = "TokenIssuerNotAuthorized"
	TokenExpired               ErrorCode = "TokenExpired"
	TokenNotValid              ErrorCode = "TokenNotValid"
	TokenBlacklisted           ErrorCode = "TokenBlacklisted"
	AccessTokenNotSuitable     ErrorCode = "AccessTokenNotSuitable"
	AccessTokenNotIssuedToUser ErrorCode = "AccessTokenNotIssuedToUser"
)

// AuthorizationResult is the verdict on a presented access token.
//
// When IsAuthenticated is true, ErrorCode is empty and both UserUUID and
// JwtID are set. An expired token keeps UserUUID and JwtID so the refresh
// path can still find its ledger entry. Treat values as immutable: the
// helpers below return copies.
type AuthorizationResult struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	ErrorCode       ErrorCode `json:"errorCode,omitempty"`
	UserUUID        string    `json:"userUuid,omitempty"`
	JwtID           string    `json:"jwtId,omitempty"`
	ClientName      string    `json:"clientName,omitempty"`
	Rights          []string  `json:"rights,omitempty"`
}

// Authenticated builds a successful result.
func Authenticated(clientName, userUUID, jwtID string) AuthorizationResult {
	return AuthorizationResult{
		IsAuthenticated: true,
		UserUUID:        userUUID,
		JwtID:           jwtID,
		ClientName:      clientName,
	}
}

// Unauthenticated builds a failed result with no identity attached.
func Unauthenticated(code ErrorCode) AuthorizationResult {
	return AuthorizationResult{ErrorCode: code}
}

// Expired builds the TokenExpired result, which keeps the token's identity.
func Expired(userUUID, jwtID string) AuthorizationResult {
	return AuthorizationResult{
		ErrorCode: TokenExpired,
		UserUUID:  userUUID,
		JwtID:     jwtID,
	}
}

// WithRights returns a copy carrying rights.
func (r AuthorizationResult) WithRights(rights []string) AuthorizationResult {
	r.Rights = append([]string(nil), rights...)
	return r
}

// Revoked returns a copy downgraded to TokenBlacklisted. Identity is kept
// for logging.
func (r AuthorizationResult) Revoked() AuthorizationResult {
	r.IsAuthenticated = false
	r.ErrorCode = TokenBlacklisted
	r.Rights = nil
	return r
}

// HasRight reports whether the result grants name.
func (r AuthorizationResult) HasRight(name string) bool {
	if !r.IsAuthenticated {
		return false
	}
	for _, have := range r.Rights {
		if have == name {
			return true
		}
	}
	return false
}
