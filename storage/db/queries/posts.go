package queries

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"social/storage/db"
	"social/storage/models"
)

const postColumns = `id, author_id, title, body, created_at`

func CreatePost(ctx context.Context, dbtx db.DBTX, authorID int64, title, body string) (*models.Post, error) {
	row := dbtx.QueryRow(
		ctx,
		`INSERT INTO posts (author_id, title, body) VALUES ($1, $2, $3) RETURNING `+postColumns,
		authorID, title, body,
	)
	return scanPost(row)
}

func GetPost(ctx context.Context, dbtx db.DBTX, id int64) (*models.Post, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func ListPosts(ctx context.Context, dbtx db.DBTX) ([]models.Post, error) {
	rows, err := dbtx.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func UpdatePost(ctx context.Context, dbtx db.DBTX, id int64, title, body string) (*models.Post, error) {
	row := dbtx.QueryRow(
		ctx,
		`UPDATE posts SET title = $2, body = $3 WHERE id = $1 RETURNING `+postColumns,
		id, title, body,
	)
	return scanPost(row)
}

func DeletePost(ctx context.Context, dbtx db.DBTX, id int64) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetFeedPage returns posts authored by users the requester follows, newest
// first with ties in insertion order, starting strictly after the cursor
// position (before, beforeID).
func GetFeedPage(
	ctx context.Context,
	dbtx db.DBTX,
	userID int64,
	before time.Time,
	beforeID int64,
	limit int,
) ([]models.FeedEntry, error) {
	rows, err := dbtx.Query(
		ctx,
		`SELECT p.id, p.author_id, u.username, p.title, p.body, p.created_at
		 FROM posts p
		 JOIN follows f ON f.followed_id = p.author_id
		 JOIN users u ON u.id = p.author_id
		 WHERE f.follower_id = $1
		   AND (p.created_at < $2 OR (p.created_at = $2 AND p.id > $3))
		 ORDER BY p.created_at DESC, p.id ASC
		 LIMIT $4`,
		userID, before, beforeID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.FeedEntry, 0)
	for rows.Next() {
		var e models.FeedEntry
		if err := rows.Scan(&e.PostID, &e.AuthorID, &e.AuthorUsername, &e.Title, &e.Body, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
