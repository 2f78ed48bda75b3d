// Package sqlite implements the store.Store interface on an embedded SQLite
// database (modernc.org/sqlite, no cgo). It backs local runs and the
// end-to-end HTTP tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/alfredjeanlab/blogd/internal/model"
	"github.com/alfredjeanlab/blogd/internal/store"
)

//go:embed schema.sql
var schema string

// busyTimeoutPragma makes writers wait on a locked database instead of
// failing with SQLITE_BUSY when several pooled connections write at once.
const busyTimeoutPragma = "_pragma=busy_timeout(5000)"

// SQLiteStore implements store.Store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements store.Store.
var _ store.Store = (*SQLiteStore)(nil)

// New opens the SQLite database named by dsn (a file path, file: URI, or
// ":memory:"), configures the pool, and creates the blog_posts table if needed.
func New(dsn string, pool store.PoolOptions) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", withBusyTimeout(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if isInMemory(dsn) {
		// Every connection to an in-memory DSN gets its own empty database,
		// so the pool is pinned to the one connection that holds the schema.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		if pool.MaxOpenConns > 0 {
			db.SetMaxOpenConns(pool.MaxOpenConns)
		}
		if pool.MaxIdleConns > 0 {
			db.SetMaxIdleConns(pool.MaxIdleConns)
		}
		if pool.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(pool.ConnMaxLifetime)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// isInMemory reports whether dsn names a private in-memory database
// (":memory:", "file::memory:", or a file: URI with mode=memory).
func isInMemory(dsn string) bool {
	name, query, _ := strings.Cut(dsn, "?")
	if name == ":memory:" || name == "file::memory:" || name == "" {
		return true
	}
	return strings.Contains(query, "mode=memory")
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + busyTimeoutPragma
	}
	return dsn + "?" + busyTimeoutPragma
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that a pooled connection can reach the database.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) CreatePost(ctx context.Context, p *model.BlogPost) (*model.BlogPost, error) {
	var created model.BlogPost
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (id, title, body, published)
		VALUES (?, ?, ?, ?)
		RETURNING id, title, body, published`,
		p.ID, p.Title, p.Body, p.Published,
	).Scan(&created.ID, &created.Title, &created.Body, &created.Published)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("insert post %d: %w", p.ID, store.ErrConflict)
		}
		return nil, fmt.Errorf("insert post %d: %w", p.ID, err)
	}
	return &created, nil
}

func (s *SQLiteStore) GetPost(ctx context.Context, id int32) (*model.BlogPost, error) {
	var p model.BlogPost
	err := s.db.QueryRowContext(ctx, `SELECT id, title, body, published FROM blog_posts WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Body, &p.Published)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListPosts(ctx context.Context) ([]*model.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, body, published FROM blog_posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.BlogPost
	for rows.Next() {
		var p model.BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.Published); err != nil {
			return nil, fmt.Errorf("scan posts: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}

func (s *SQLiteStore) UpdatePost(ctx context.Context, id int32, title, body string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE blog_posts SET title = ?, body = ? WHERE id = ?`, title, body, id); err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) DeletePost(ctx context.Context, id int32) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
