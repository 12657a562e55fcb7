package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/cache"
	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/internal/authz/idp"
	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/aussiebroadwan/useraccount/internal/authz/store/drivers/sqlite"
	"github.com/aussiebroadwan/useraccount/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testRegion = "ap-southeast-2"
	testPool   = "ap-southeast-2_TestPool"
	testClient = "web-app"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fixture wires the core services over an in-memory sqlite store and
// ttlcache, with an RSA signer standing in for the identity provider.
type fixture struct {
	store  *sqlite.Store
	cache  cache.Cache
	signer jwtx.Signer
	keys   *jwtx.KeySet
	client *domain.ClientAppSetting
	clock  *fakeClock

	validator  *service.TokenValidator
	ledger     *service.TokenLedger
	rights     *service.RightsCache
	authorizer *service.Authorizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	mem := cache.NewMemory(0)
	t.Cleanup(func() { _ = mem.Close() })

	signer, err := jwtx.GenerateSignerRS256("test-kid", 2048)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	f := &fixture{
		store:  st,
		cache:  mem,
		signer: signer,
		keys:   keys,
		client: &domain.ClientAppSetting{Name: testClient, ClientID: "client-id", PoolID: testPool},
		clock:  &fakeClock{now: time.Now().UTC()},
	}
	f.rebuild(nil)
	return f
}

// rebuild rewires the services, optionally over a different cache.
func (f *fixture) rebuild(c cache.Cache) {
	if c != nil {
		f.cache = c
	}
	f.validator = service.NewTokenValidator(service.ValidatorConfig{
		Keys:   f.keys,
		Client: f.client,
		Region: testRegion,
	}, nil)
	f.ledger = &service.TokenLedger{Store: f.store, Cache: f.cache, Now: f.clock.Now}
	f.rights = &service.RightsCache{Store: f.store, Cache: f.cache}
	f.authorizer = &service.Authorizer{Validator: f.validator, Ledger: f.ledger, Rights: f.rights}
}

func (f *fixture) issuer() string {
	return f.client.ExpectedIssuer("", testRegion)
}

// mint signs an access token for username. mutate may adjust the claims.
func (f *fixture) mint(t *testing.T, username string, mutate func(*jwtx.AccessClaims)) (token, jti string) {
	t.Helper()
	claims := jwtx.NewAccessClaims(f.issuer(), f.client.ClientID, username, time.Hour, time.Now())
	if mutate != nil {
		mutate(&claims)
	}
	token, err := f.signer.Sign(claims)
	require.NoError(t, err)
	return token, claims.ID
}

func (f *fixture) mintExpired(t *testing.T, username string) (token, jti string) {
	t.Helper()
	return f.mint(t, username, func(c *jwtx.AccessClaims) {
		past := time.Now().Add(-30 * time.Minute)
		c.IssuedAt.Time = past.Add(-time.Hour)
		c.ExpiresAt.Time = past
	})
}

// fakeProvider is a scripted IdentityProvider.
type fakeProvider struct {
	mu sync.Mutex

	loginOutcome   idp.Outcome
	refreshOutcome idp.Outcome
	refreshErr     error
	signOutErr     error

	refreshCalls int
	signedOut    []string
}

func (p *fakeProvider) InitiateAuth(_ context.Context, _, _, _ string) (idp.Outcome, error) {
	return p.loginOutcome, nil
}

func (p *fakeProvider) Refresh(_ context.Context, _, _ string) (idp.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshCalls++
	return p.refreshOutcome, p.refreshErr
}

func (p *fakeProvider) GlobalSignOut(_ context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.signedOut = append(p.signedOut, accessToken)
	return nil
}

// brokenCache fails every call.
type brokenCache struct {
	deletes int
}

var errCacheDown = errors.New("cache down")

func (b *brokenCache) Get(context.Context, string, any) (bool, error) { return false, errCacheDown }
func (b *brokenCache) Set(context.Context, string, any, time.Duration) error {
	return errCacheDown
}
func (b *brokenCache) Delete(context.Context, string) error {
	b.deletes++
	return errCacheDown
}
func (b *brokenCache) Ping(context.Context) error { return errCacheDown }
func (b *brokenCache) Close() error               { return nil }
