package queries

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"social/storage/db"
	"social/storage/models"
)

func CreateSession(ctx context.Context, dbtx db.DBTX, token string, userID int64, expiresAt time.Time) error {
	_, err := dbtx.Exec(
		ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	return err
}

func GetSession(ctx context.Context, dbtx db.DBTX, token string) (*models.Session, error) {
	var s models.Session
	err := dbtx.QueryRow(
		ctx,
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`,
		token,
	).Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func DeleteExpiredSessions(ctx context.Context, dbtx db.DBTX, now time.Time) error {
	_, err := dbtx.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	return err
}
