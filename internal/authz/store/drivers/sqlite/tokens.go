package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
	"github.com/aussiebroadwan/useraccount/internal/authz/store"
)

type issuedTokensRepo struct {
	q querier
}

func (r *issuedTokensRepo) CreateIssuedToken(ctx context.Context, t domain.IssuedToken) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO issued_tokens (jti, user_uuid, ip, created_date)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (jti) DO NOTHING`,
		t.JTI, t.UserUUID, t.SourceIP, toMillis(t.CreatedAt),
	)
	if err != nil {
		return 0, err
	}
	return insertedRows(res)
}

func (r *issuedTokensRepo) GetIssuedToken(ctx context.Context, jti string) (domain.IssuedToken, error) {
	var (
		t       domain.IssuedToken
		created int64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT jti, user_uuid, ip, created_date FROM issued_tokens WHERE jti = ?`, jti,
	).Scan(&t.JTI, &t.UserUUID, &t.SourceIP, &created)
	if err != nil {
		return domain.IssuedToken{}, mapNotFound(err)
	}
	t.CreatedAt = fromMillis(created)
	return t, nil
}

func (r *issuedTokensRepo) DeleteIssuedTokensBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM issued_tokens WHERE created_date < ?`, toMillis(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type blacklistedTokensRepo struct {
	q querier
}

func (r *blacklistedTokensRepo) CreateBlacklistedToken(ctx context.Context, t domain.BlacklistedToken) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO blacklisted_tokens (jti, created_date)
		 VALUES (?, ?)
		 ON CONFLICT (jti) DO NOTHING`,
		t.JTI, toMillis(t.CreatedAt),
	)
	if err != nil {
		return 0, err
	}
	return insertedRows(res)
}

func (r *blacklistedTokensRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM blacklisted_tokens WHERE jti = ?`, jti,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *blacklistedTokensRepo) DeleteBlacklistedTokensBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM blacklisted_tokens WHERE created_date < ?`, toMillis(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// insertedRows turns an ON CONFLICT DO NOTHING miss into ErrAlreadyExists.
func insertedRows(res interface{ RowsAffected() (int64, error) }) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, store.ErrAlreadyExists
	}
	return n, nil
}
