package domain

import "strings"

// DefaultIssuerHost is the identity provider's issuer host. "{region}" is
// replaced with the configured region.
const DefaultIssuerHost = "cognito-idp.{region}.amazonaws.com"

// ClientAppSetting identifies the app client tokens must be issued for.
type ClientAppSetting struct {
	Name     string `json:"name"`
	ClientID string `json:"clientId"`
	PoolID   string `json:"poolId"`
}

// ExpectedIssuer returns the iss value a token from this client's pool
// must carry, e.g. https://cognito-idp.ap-southeast-2.amazonaws.com/<pool>.
func (c ClientAppSetting) ExpectedIssuer(issuerHost, region string) string {
	if issuerHost == "" {
		issuerHost = DefaultIssuerHost
	}
	host := strings.ReplaceAll(issuerHost, "{region}", region)
	return "https://" + host + "/" + c.PoolID
}
