package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/blogd/internal/model"
	"github.com/alfredjeanlab/blogd/internal/store"
)

// postColumns is the column list used for SELECT and RETURNING clauses on blog_posts.
const postColumns = `id, title, body, published`

// uniqueViolation is the SQLSTATE Postgres reports for a duplicate primary key.
const uniqueViolation = "23505"

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreatePost(ctx context.Context, db executor, p *model.BlogPost) (*model.BlogPost, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (id, title, body, published)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postColumns,
		p.ID, p.Title, p.Body, p.Published,
	)
	created, err := scanPost(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("insert post %d: %w", p.ID, store.ErrConflict)
		}
		return nil, fmt.Errorf("insert post %d: %w", p.ID, err)
	}
	return created, nil
}

func queryGetPost(ctx context.Context, db executor, id int32) (*model.BlogPost, error) {
	row := db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return p, nil
}

func queryListPosts(ctx context.Context, db executor) ([]*model.BlogPost, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+postColumns+` FROM blog_posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan posts: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}

// queryUpdatePost sets title and body only; a missing row is not an error.
func queryUpdatePost(ctx context.Context, db executor, id int32, title, body string) error {
	_, err := db.ExecContext(ctx, `UPDATE blog_posts SET title = $2, body = $3 WHERE id = $1`, id, title, body)
	if err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	return nil
}

func queryDeletePost(ctx context.Context, db executor, id int32) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
