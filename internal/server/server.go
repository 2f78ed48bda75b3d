package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/blogd/internal/events"
	"github.com/alfredjeanlab/blogd/internal/model"
	"github.com/alfredjeanlab/blogd/internal/store"
)

// BlogServer serves the blog post HTTP API. All fields are set at
// construction and read-only afterwards, so one BlogServer is shared by
// every request goroutine.
type BlogServer struct {
	store     store.Store
	publisher events.Publisher
	greeting  model.Greeting
}

// NewBlogServer returns a new BlogServer backed by the given store and
// publisher, answering GET /config with greeting.
func NewBlogServer(s store.Store, p events.Publisher, greeting model.Greeting) *BlogServer {
	return &BlogServer{
		store:     s,
		publisher: p,
		greeting:  greeting,
	}
}

// publish emits an event after a successful mutation.
// Failures are logged and never reach the HTTP caller.
func (s *BlogServer) publish(ctx context.Context, topic string, postID int32, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event",
			"topic", topic,
			"post_id", postID,
			"request_id", RequestIDFromContext(ctx),
			"error", err,
		)
	}
}

// inputError indicates invalid user input.
// Handlers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
