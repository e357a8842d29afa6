package queries

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"social/storage/db"
	"social/storage/models"
)

const userColumns = `id, username, email, password_hash, bio, created_at`

func CreateUser(ctx context.Context, dbtx db.DBTX, username, email, passwordHash, bio string) (*models.User, error) {
	row := dbtx.QueryRow(
		ctx,
		`INSERT INTO users (username, email, password_hash, bio)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		username, email, passwordHash, bio,
	)
	user, err := scanUser(row)
	if isUniqueViolation(err, "users_username_key") {
		return nil, models.ErrDuplicateUsername
	}
	return user, err
}

func GetUser(ctx context.Context, dbtx db.DBTX, id int64) (*models.User, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func GetUserByUsername(ctx context.Context, dbtx db.DBTX, username string) (*models.User, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func ListUsers(ctx context.Context, dbtx db.DBTX) ([]models.User, error) {
	rows, err := dbtx.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func UpdateProfile(ctx context.Context, dbtx db.DBTX, id int64, email, bio string) (*models.User, error) {
	row := dbtx.QueryRow(
		ctx,
		`UPDATE users SET email = $2, bio = $3 WHERE id = $1 RETURNING `+userColumns,
		id, email, bio,
	)
	return scanUser(row)
}

func GetUserStatistics(ctx context.Context, dbtx db.DBTX, id int64) (models.UserStatistics, error) {
	stats := models.UserStatistics{ID: id}
	err := dbtx.QueryRow(
		ctx,
		`SELECT
		    (SELECT count(*) FROM follows WHERE followed_id = $1),
		    (SELECT count(*) FROM follows WHERE follower_id = $1),
		    (SELECT count(*) FROM posts WHERE author_id = $1)`,
		id,
	).Scan(&stats.FollowersCount, &stats.FollowsCount, &stats.PostsCount)
	return stats, err
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
