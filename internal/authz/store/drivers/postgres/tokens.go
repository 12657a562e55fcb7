package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/useraccount/internal/authz/domain"
)

type issuedTokensRepo struct {
	q querier
}

func (r *issuedTokensRepo) CreateIssuedToken(ctx context.Context, t domain.IssuedToken) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`INSERT INTO issued_tokens (jti, user_uuid, ip, created_date)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (jti) DO NOTHING`,
		t.JTI, t.UserUUID, t.SourceIP, t.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return insertedRows(tag)
}

func (r *issuedTokensRepo) GetIssuedToken(ctx context.Context, jti string) (domain.IssuedToken, error) {
	var t domain.IssuedToken
	err := r.q.QueryRow(ctx,
		`SELECT jti, user_uuid, ip, created_date FROM issued_tokens WHERE jti = $1`, jti,
	).Scan(&t.JTI, &t.UserUUID, &t.SourceIP, &t.CreatedAt)
	if err != nil {
		return domain.IssuedToken{}, mapNotFound(err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (r *issuedTokensRepo) DeleteIssuedTokensBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM issued_tokens WHERE created_date < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type blacklistedTokensRepo struct {
	q querier
}

func (r *blacklistedTokensRepo) CreateBlacklistedToken(ctx context.Context, t domain.BlacklistedToken) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`INSERT INTO blacklisted_tokens (jti, created_date)
		 VALUES ($1, $2)
		 ON CONFLICT (jti) DO NOTHING`,
		t.JTI, t.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return insertedRows(tag)
}

func (r *blacklistedTokensRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE jti = $1)`, jti,
	).Scan(&exists)
	return exists, err
}

func (r *blacklistedTokensRepo) DeleteBlacklistedTokensBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM blacklisted_tokens WHERE created_date < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
