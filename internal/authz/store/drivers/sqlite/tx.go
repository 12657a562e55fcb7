package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/useraccount/internal/authz/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the outer DB stays open after commit/rollback.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) IssuedTokens() store.IssuedTokens           { return &issuedTokensRepo{q: t.tx} }
func (t *txStore) BlacklistedTokens() store.BlacklistedTokens { return &blacklistedTokensRepo{q: t.tx} }
func (t *txStore) UserRights() store.UserRights               { return &userRightsRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil }
