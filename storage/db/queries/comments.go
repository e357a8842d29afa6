package queries

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"social/storage/db"
	"social/storage/models"
)

const commentColumns = `id, author_id, post_id, body, created_at`

func CreateComment(ctx context.Context, dbtx db.DBTX, authorID, postID int64, body string) (*models.Comment, error) {
	row := dbtx.QueryRow(
		ctx,
		`INSERT INTO comments (author_id, post_id, body) VALUES ($1, $2, $3) RETURNING `+commentColumns,
		authorID, postID, body,
	)
	return scanComment(row)
}

func GetComment(ctx context.Context, dbtx db.DBTX, id int64) (*models.Comment, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	return scanComment(row)
}

func ListComments(ctx context.Context, dbtx db.DBTX, postID int64) ([]models.Comment, error) {
	rows, err := dbtx.Query(
		ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at, id`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.PostID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func UpdateComment(ctx context.Context, dbtx db.DBTX, id int64, body string) (*models.Comment, error) {
	row := dbtx.QueryRow(
		ctx,
		`UPDATE comments SET body = $2 WHERE id = $1 RETURNING `+commentColumns,
		id, body,
	)
	return scanComment(row)
}

func DeleteComment(ctx context.Context, dbtx db.DBTX, id int64) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.AuthorID, &c.PostID, &c.Body, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
