package http

import "time"

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Keys     string `json:"keys"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticationResult mirrors the provider's token response. The ID
// token is never passed on.
type AuthenticationResult struct {
	AccessToken  string `json:"AccessToken"`
	RefreshToken string `json:"RefreshToken,omitempty"`
	TokenType    string `json:"TokenType,omitempty"`
	ExpiresIn    int64  `json:"ExpiresIn,omitempty"`
}

type LoginResponse struct {
	AuthenticationResult AuthenticationResult `json:"AuthenticationResult"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"AccessToken"`
}

type MonitorResponse struct {
	Date time.Time `json:"date"`
}

type ClearTokensResponse struct {
	BlacklistedDeleted int64 `json:"blacklistedDeleted"`
	IssuedDeleted      int64 `json:"issuedDeleted"`
}
