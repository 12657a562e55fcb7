package sqlite

import (
	"context"

	"github.com/google/uuid"
)

type userRightsRepo struct {
	q querier
}

func (r *userRightsRepo) ListRightNames(ctx context.Context, userUUID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT r.right_name
		 FROM user_right ur
		 INNER JOIN rights r ON ur.right_uuid = r.uuid
		 WHERE ur.user_uuid = ?
		 ORDER BY r.right_name`, userUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *userRightsRepo) GrantRight(ctx context.Context, userUUID, rightName string) error {
	if _, err := r.q.ExecContext(ctx,
		`INSERT INTO rights (uuid, right_name) VALUES (?, ?)
		 ON CONFLICT (right_name) DO NOTHING`,
		uuid.NewString(), rightName,
	); err != nil {
		return err
	}

	var rightUUID string
	if err := r.q.QueryRowContext(ctx,
		`SELECT uuid FROM rights WHERE right_name = ?`, rightName,
	).Scan(&rightUUID); err != nil {
		return mapNotFound(err)
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO user_right (user_uuid, right_uuid) VALUES (?, ?)
		 ON CONFLICT (user_uuid, right_uuid) DO NOTHING`,
		userUUID, rightUUID,
	)
	return err
}
