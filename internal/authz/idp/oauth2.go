package idp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"golang.org/x/oauth2"
)

// OAuth2Config points the provider client at the token and revocation
// endpoints of an OAuth2 authorization server.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	RevokeURL    string
	Scopes       []string
	Timeout      time.Duration
}

// OAuth2Provider implements IdentityProvider with the password and
// refresh_token grants and RFC 7009 revocation.
type OAuth2Provider struct {
	conf      oauth2.Config
	revokeURL string
	client    *http.Client
}

func NewOAuth2Provider(cfg OAuth2Config) *OAuth2Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &OAuth2Provider{
		conf: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		revokeURL: cfg.RevokeURL,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: forwardedFor{base: http.DefaultTransport},
		},
	}
}

func (p *OAuth2Provider) InitiateAuth(ctx context.Context, username, password, sourceIP string) (Outcome, error) {
	tok, err := p.conf.PasswordCredentialsToken(p.context(ctx, sourceIP), username, password)
	if err != nil {
		return mapTokenError(err)
	}
	return Accepted{Tokens: tokenSet(tok)}, nil
}

func (p *OAuth2Provider) Refresh(ctx context.Context, refreshToken, sourceIP string) (Outcome, error) {
	// A token with only a refresh token is never valid, so the source
	// goes straight to the refresh grant.
	src := p.conf.TokenSource(p.context(ctx, sourceIP), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return mapTokenError(err)
	}
	return Accepted{Tokens: tokenSet(tok)}, nil
}

// GlobalSignOut revokes the access token at the provider.
func (p *OAuth2Provider) GlobalSignOut(ctx context.Context, accessToken string) error {
	if p.revokeURL == "" {
		return errors.New("idp: revoke endpoint not configured")
	}

	data := url.Values{
		"token":           {accessToken},
		"token_type_hint": {"access_token"},
		"client_id":       {p.conf.ClientID},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.revokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("idp: create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if p.conf.ClientSecret != "" {
		req.SetBasicAuth(url.QueryEscape(p.conf.ClientID), url.QueryEscape(p.conf.ClientSecret))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("idp: revoke: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("idp: revoke failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (p *OAuth2Provider) context(ctx context.Context, sourceIP string) context.Context {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	if sourceIP != "" {
		ctx = context.WithValue(ctx, sourceIPKey{}, sourceIP)
	}
	return ctx
}

func tokenSet(tok *oauth2.Token) domain.TokenSet {
	ts := domain.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if id, ok := tok.Extra("id_token").(string); ok {
		ts.IDToken = id
	}
	if !tok.Expiry.IsZero() {
		ts.ExpiresIn = int64(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	return ts
}

// mapTokenError sorts a failed grant into a Rejected outcome or a fault.
func mapTokenError(err error) (Outcome, error) {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return nil, fmt.Errorf("idp: token request: %w", err)
	}

	msg := re.ErrorDescription
	if msg == "" {
		msg = re.ErrorCode
	}

	switch re.ErrorCode {
	case "invalid_grant", "invalid_client", "unauthorized_client", "access_denied":
		return Rejected{Code: CodeNotAuthorized, Message: msg, UserError: true}, nil
	case "invalid_request", "invalid_scope":
		return Rejected{Code: CodeInvalidParameter, Message: msg}, nil
	case "slow_down", "temporarily_unavailable":
		return Rejected{Code: CodeLimitExceeded, Message: msg}, nil
	}

	if re.Response != nil && re.Response.StatusCode == http.StatusTooManyRequests {
		return Rejected{Code: CodeLimitExceeded, Message: msg}, nil
	}
	if re.Response != nil && re.Response.StatusCode >= 500 {
		return nil, fmt.Errorf("idp: provider returned %d: %w", re.Response.StatusCode, err)
	}
	return Rejected{Code: CodeProviderError, Message: msg}, nil
}

type sourceIPKey struct{}

// forwardedFor stamps X-Forwarded-For with the end user's address so the
// provider's own risk checks see the real client.
type forwardedFor struct {
	base http.RoundTripper
}

func (f forwardedFor) RoundTrip(req *http.Request) (*http.Response, error) {
	ip, _ := req.Context().Value(sourceIPKey{}).(string)
	if ip == "" {
		return f.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("X-Forwarded-For", ip)
	return f.base.RoundTrip(req)
}
