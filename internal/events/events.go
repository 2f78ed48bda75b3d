package events

import (
	"context"

	"github.com/alfredjeanlab/blogd/internal/model"
)

// Event topic constants
const (
	TopicPostCreated = "blog.post.created"
	TopicPostUpdated = "blog.post.updated"
	TopicPostDeleted = "blog.post.deleted"
)

// Event types

type PostCreated struct {
	Post *model.BlogPost `json:"post"`
}

type PostUpdated struct {
	PostID int32  `json:"post_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type PostDeleted struct {
	PostID int32 `json:"post_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
