package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/cache"
	"github.com/aussiebroadwan/useraccount/internal/authz/store"
	"github.com/aussiebroadwan/useraccount/pkg/slogx"
)

// RightsCacheTTL bounds how stale a user's rights can be. Grants and
// revocations are not pushed to the cache.
const RightsCacheTTL = 1200 * time.Second

// RightsCache resolves the rights granted to a user.
type RightsCache struct {
	Store store.Store
	Cache cache.Cache
}

// GetUserRights returns the user's right names. An empty list is a valid,
// cacheable answer.
func (r *RightsCache) GetUserRights(ctx context.Context, userUUID string) ([]string, error) {
	log := slogx.FromContext(ctx)
	key := cache.UserRightsKey(userUUID)

	var rights []string
	found, err := r.Cache.Get(ctx, key, &rights)
	if err != nil {
		log.Warn("rights cache read failed", slog.String("user_uuid", userUUID), slog.Any("error", err))
	} else if found {
		if rights == nil {
			rights = []string{}
		}
		return rights, nil
	}

	rights, err = r.Store.UserRights().ListRightNames(ctx, userUUID)
	if err != nil {
		log.Error("failed to load user rights", slog.String("user_uuid", userUUID), slog.Any("error", err))
		return nil, fmt.Errorf("load user rights: %w", err)
	}

	if err := r.Cache.Set(ctx, key, rights, RightsCacheTTL); err != nil {
		log.Warn("rights cache write failed", slog.String("user_uuid", userUUID), slog.Any("error", err))
	}
	return rights, nil
}
