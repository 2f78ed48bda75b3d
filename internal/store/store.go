package store

import (
	"context"
	"errors"
	"time"

	"github.com/alfredjeanlab/blogd/internal/model"
)

// ErrConflict is returned by CreatePost when the post ID is already taken.
var ErrConflict = errors.New("post already exists")

// Store defines the persistence interface for blog posts.
// GetPost wraps sql.ErrNoRows when no row matches.
type Store interface {
	CreatePost(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error)
	GetPost(ctx context.Context, id int32) (*model.BlogPost, error)
	ListPosts(ctx context.Context) ([]*model.BlogPost, error)
	UpdatePost(ctx context.Context, id int32, title, body string) error
	DeletePost(ctx context.Context, id int32) (deleted bool, err error) // true when exactly one row was removed

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// PoolOptions are the database/sql pool knobs applied by every backend.
// Zero values leave the database/sql defaults in place.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}
