package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, implemented by the sqlite and
// postgres drivers. Repositories hang off it as methods so a Tx can hand out
// the same repositories bound to the transaction.
type Store interface {
	IssuedTokens() IssuedTokens
	BlacklistedTokens() BlacklistedTokens
	UserRights() UserRights

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when it returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type IssuedTokens interface {
	// CreateIssuedToken inserts a row and returns the affected row count.
	// A duplicate jti returns ErrAlreadyExists.
	CreateIssuedToken(ctx context.Context, t domain.IssuedToken) (int64, error)

	// GetIssuedToken returns ErrNotFound when the jti was never recorded.
	GetIssuedToken(ctx context.Context, jti string) (domain.IssuedToken, error)

	// DeleteIssuedTokensBefore removes rows created before cutoff.
	DeleteIssuedTokensBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type BlacklistedTokens interface {
	// CreateBlacklistedToken inserts a row. A duplicate jti returns
	// ErrAlreadyExists.
	CreateBlacklistedToken(ctx context.Context, t domain.BlacklistedToken) (int64, error)

	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	DeleteBlacklistedTokensBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type UserRights interface {
	// ListRightNames returns the names of every right granted to the user.
	// An unknown user yields an empty list, not ErrNotFound.
	ListRightNames(ctx context.Context, userUUID string) ([]string, error)

	// GrantRight creates the right if needed and links it to the user.
	// Granting twice is a no-op.
	GrantRight(ctx context.Context, userUUID, rightName string) error
}
