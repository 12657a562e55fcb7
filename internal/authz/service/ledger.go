package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/cache"
	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/internal/authz/store"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
)

// BlacklistCacheTTL is how long a blacklist lookup is remembered.
const BlacklistCacheTTL = 3600 * time.Second

// PruneResult reports rows removed by a retention sweep.
type PruneResult struct {
	Blacklisted int64
	Issued      int64
}

// TokenLedger records which tokens were issued and which were revoked.
// Blacklist reads are cache-aside, writes go to the store first and then
// to the cache.
type TokenLedger struct {
	Store store.Store
	Cache cache.Cache

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (l *TokenLedger) now() time.Time {
	if l.Now != nil {
		return l.Now().UTC()
	}
	return time.Now().UTC()
}

// InsertIssuedToken records a freshly minted token. A jti seen before is
// left untouched and reported as zero affected rows.
func (l *TokenLedger) InsertIssuedToken(ctx context.Context, jti, userUUID, ip string) (int64, error) {
	n, err := l.Store.IssuedTokens().CreateIssuedToken(ctx, domain.IssuedToken{
		JTI:       jti,
		UserUUID:  userUUID,
		SourceIP:  ip,
		CreatedAt: l.now(),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return 0, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to insert issued token",
			slog.String("jti", jti), slog.String("user_uuid", userUUID), slog.Any("error", err))
		return 0, fmt.Errorf("insert issued token: %w", err)
	}
	return n, nil
}

// InsertBlacklistedToken revokes jti. The row is written before the cache.
// Revoking twice is not an error and reports zero affected rows.
func (l *TokenLedger) InsertBlacklistedToken(ctx context.Context, jti string) (int64, error) {
	n, err := l.Store.BlacklistedTokens().CreateBlacklistedToken(ctx, domain.BlacklistedToken{
		JTI:       jti,
		CreatedAt: l.now(),
	})
	if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		slogx.FromContext(ctx).Error("failed to blacklist token", slog.String("jti", jti), slog.Any("error", err))
		return 0, fmt.Errorf("insert blacklisted token: %w", err)
	}

	l.cacheBlacklisted(ctx, jti)
	return n, nil
}

// IsBlacklisted reports whether jti has been revoked. Cache faults fall
// back to the store; store faults are returned.
func (l *TokenLedger) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	log := slogx.FromContext(ctx)
	key := cache.BlacklistedTokenKey(jti)

	var cached bool
	found, err := l.Cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("blacklist cache read failed", slog.String("jti", jti), slog.Any("error", err))
	} else if found {
		return cached, nil
	}

	blacklisted, err := l.Store.BlacklistedTokens().IsBlacklisted(ctx, jti)
	if err != nil {
		log.Error("failed to read blacklist", slog.String("jti", jti), slog.Any("error", err))
		return false, fmt.Errorf("read blacklist: %w", err)
	}

	if err := l.Cache.Set(ctx, key, blacklisted, BlacklistCacheTTL); err != nil {
		log.Warn("blacklist cache write failed", slog.String("jti", jti), slog.Any("error", err))
	}
	return blacklisted, nil
}

// IssuedAgeHours returns how many whole hours ago jti was issued. found is
// false when the token was never recorded, which is not the same as zero.
func (l *TokenLedger) IssuedAgeHours(ctx context.Context, jti string) (hours int, found bool, err error) {
	rec, err := l.Store.IssuedTokens().GetIssuedToken(ctx, jti)
	if errors.Is(err, store.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to read issued token", slog.String("jti", jti), slog.Any("error", err))
		return 0, false, fmt.Errorf("read issued token: %w", err)
	}
	return wholeHours(l.now().Sub(rec.CreatedAt)), true, nil
}

// PruneExpired deletes ledger rows older than ageHours from both tables.
func (l *TokenLedger) PruneExpired(ctx context.Context, ageHours int) (PruneResult, error) {
	if ageHours < 0 {
		return PruneResult{}, fmt.Errorf("prune: negative age %d", ageHours)
	}
	cutoff := l.now().Add(-time.Duration(ageHours) * time.Hour)
	log := slogx.FromContext(ctx)

	var res PruneResult
	var err error

	res.Blacklisted, err = l.Store.BlacklistedTokens().DeleteBlacklistedTokensBefore(ctx, cutoff)
	if err != nil {
		log.Error("failed to prune blacklisted tokens", slog.Any("error", err))
		return res, fmt.Errorf("prune blacklisted tokens: %w", err)
	}

	res.Issued, err = l.Store.IssuedTokens().DeleteIssuedTokensBefore(ctx, cutoff)
	if err != nil {
		log.Error("failed to prune issued tokens", slog.Any("error", err))
		return res, fmt.Errorf("prune issued tokens: %w", err)
	}

	log.Info("pruned token ledger",
		slog.Int("age_hours", ageHours),
		slog.Int64("blacklisted_deleted", res.Blacklisted),
		slog.Int64("issued_deleted", res.Issued))
	return res, nil
}

// RotateToken records a refresh: oldJTI is blacklisted and newJTI issued in
// one transaction, then the blacklist entry is pushed to the cache.
func (l *TokenLedger) RotateToken(ctx context.Context, oldJTI, newJTI, userUUID, ip string) error {
	now := l.now()
	err := l.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.BlacklistedTokens().CreateBlacklistedToken(ctx, domain.BlacklistedToken{JTI: oldJTI, CreatedAt: now})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("blacklist %s: %w", oldJTI, err)
		}
		_, err = tx.IssuedTokens().CreateIssuedToken(ctx, domain.IssuedToken{
			JTI:       newJTI,
			UserUUID:  userUUID,
			SourceIP:  ip,
			CreatedAt: now,
		})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("issue %s: %w", newJTI, err)
		}
		return nil
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to rotate token",
			slog.String("old_jti", oldJTI), slog.String("new_jti", newJTI), slog.Any("error", err))
		return fmt.Errorf("rotate token: %w", err)
	}

	l.cacheBlacklisted(ctx, oldJTI)
	return nil
}

// cacheBlacklisted writes through a revocation. If the write fails the key
// is dropped instead, so a cached "false" cannot outlive the revocation.
func (l *TokenLedger) cacheBlacklisted(ctx context.Context, jti string) {
	key := cache.BlacklistedTokenKey(jti)
	if err := l.Cache.Set(ctx, key, true, BlacklistCacheTTL); err != nil {
		log := slogx.FromContext(ctx)
		log.Warn("blacklist cache write failed", slog.String("jti", jti), slog.Any("error", err))
		if err := l.Cache.Delete(ctx, key); err != nil {
			log.Error("blacklist cache entry may be stale", slog.String("jti", jti), slog.Any("error", err))
		}
	}
}

// wholeHours truncates toward zero like TIMESTAMPDIFF(HOUR, ...).
func wholeHours(d time.Duration) int {
	return int(d / time.Hour)
}
