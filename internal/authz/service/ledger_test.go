package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/cache"
	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/stretchr/testify/require"
)

func TestBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("write-through", func(t *testing.T) {
		f := newFixture(t)

		// Prime the cache with "not blacklisted"
		ok, err := f.ledger.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		require.False(t, ok)

		n, err := f.ledger.InsertBlacklistedToken(ctx, "jti-1")
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		var cached bool
		found, err := f.cache.Get(ctx, cache.BlacklistedTokenKey("jti-1"), &cached)
		require.NoError(t, err)
		require.True(t, found)
		require.True(t, cached)

		ok, err = f.ledger.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("revoking twice", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.InsertBlacklistedToken(ctx, "jti-1")
		require.NoError(t, err)

		n, err := f.ledger.InsertBlacklistedToken(ctx, "jti-1")
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.cache.Set(ctx, cache.BlacklistedTokenKey("only-cached"), true, time.Hour))
		require.NoError(t, f.store.Close())

		ok, err := f.ledger.IsBlacklisted(ctx, "only-cached")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("cache miss reads the store and fills the cache", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.InsertBlacklistedToken(ctx, "jti-1")
		require.NoError(t, err)
		require.NoError(t, f.cache.Delete(ctx, cache.BlacklistedTokenKey("jti-1")))

		ok, err := f.ledger.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		require.True(t, ok)

		var cached bool
		found, err := f.cache.Get(ctx, cache.BlacklistedTokenKey("jti-1"), &cached)
		require.NoError(t, err)
		require.True(t, found)
		require.True(t, cached)
	})

	t.Run("cache outage falls back to the store", func(t *testing.T) {
		f := newFixture(t)
		broken := &brokenCache{}
		f.rebuild(broken)

		_, err := f.ledger.InsertBlacklistedToken(ctx, "jti-1")
		require.NoError(t, err)
		require.Equal(t, 1, broken.deletes)

		ok, err := f.ledger.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("store failure is an error", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Close())

		_, err := f.ledger.IsBlacklisted(ctx, "jti-1")
		require.Error(t, err)

		_, err = f.ledger.InsertBlacklistedToken(ctx, "jti-1")
		require.Error(t, err)

		var cached bool
		found, err := f.cache.Get(ctx, cache.BlacklistedTokenKey("jti-1"), &cached)
		require.NoError(t, err)
		require.False(t, found)
	})
}

func TestIssuedAgeHours(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, found, err := f.ledger.IssuedAgeHours(ctx, "never-issued")
	require.NoError(t, err)
	require.False(t, found)

	n, err := f.ledger.InsertIssuedToken(ctx, "jti-1", "user-1", "10.0.0.1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	hours, found, err := f.ledger.IssuedAgeHours(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Zero(t, hours)

	f.clock.Advance(time.Hour + 59*time.Minute)
	hours, _, err = f.ledger.IssuedAgeHours(ctx, "jti-1")
	require.NoError(t, err)
	require.Equal(t, 1, hours)

	f.clock.Advance(time.Minute)
	hours, _, err = f.ledger.IssuedAgeHours(ctx, "jti-1")
	require.NoError(t, err)
	require.Equal(t, 2, hours)
}

func TestPruneExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ledger.InsertIssuedToken(ctx, "old-issued", "user-1", "")
	require.NoError(t, err)
	_, err = f.ledger.InsertBlacklistedToken(ctx, "old-revoked")
	require.NoError(t, err)

	f.clock.Advance(3 * time.Hour)

	_, err = f.ledger.InsertIssuedToken(ctx, "new-issued", "user-1", "")
	require.NoError(t, err)
	_, err = f.ledger.InsertBlacklistedToken(ctx, "new-revoked")
	require.NoError(t, err)

	res, err := f.ledger.PruneExpired(ctx, service.DefaultRetentionHours)
	require.NoError(t, err)
	require.Equal(t, service.PruneResult{Blacklisted: 1, Issued: 1}, res)

	_, found, err := f.ledger.IssuedAgeHours(ctx, "old-issued")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = f.ledger.IssuedAgeHours(ctx, "new-issued")
	require.NoError(t, err)
	require.True(t, found)

	_, err = f.ledger.PruneExpired(ctx, -1)
	require.Error(t, err)
}

func TestRotateToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.ledger.RotateToken(ctx, "old", "new", "user-1", "10.0.0.1"))

	ok, err := f.ledger.IsBlacklisted(ctx, "old")
	require.NoError(t, err)
	require.True(t, ok)

	hours, found, err := f.ledger.IssuedAgeHours(ctx, "new")
	require.NoError(t, err)
	require.True(t, found)
	require.Zero(t, hours)
}
