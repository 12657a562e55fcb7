package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type userRightsRepo struct {
	q querier
}

func (r *userRightsRepo) ListRightNames(ctx context.Context, userUUID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT r.right_name
		 FROM user_right ur
		 INNER JOIN rights r ON ur.right_uuid = r.uuid
		 WHERE ur.user_uuid = $1
		 ORDER BY r.right_name`, userUUID)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (r *userRightsRepo) GrantRight(ctx context.Context, userUUID, rightName string) error {
	var rightUUID uuid.UUID
	err := r.q.QueryRow(ctx,
		`WITH ins AS (
		     INSERT INTO rights (uuid, right_name) VALUES ($1, $2)
		     ON CONFLICT (right_name) DO NOTHING
		     RETURNING uuid
		 )
		 SELECT uuid FROM ins
		 UNION ALL
		 SELECT uuid FROM rights WHERE right_name = $2
		 LIMIT 1`,
		uuid.New(), rightName,
	).Scan(&rightUUID)
	if err != nil {
		return mapNotFound(err)
	}

	_, err = r.q.Exec(ctx,
		`INSERT INTO user_right (user_uuid, right_uuid) VALUES ($1, $2)
		 ON CONFLICT (user_uuid, right_uuid) DO NOTHING`,
		userUUID, rightUUID,
	)
	return err
}
