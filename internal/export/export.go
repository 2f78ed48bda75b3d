package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/blogd/internal/model"
)

// PostLister is the slice of store.Store the exporter reads from.
type PostLister interface {
	ListPosts(ctx context.Context) ([]*model.BlogPost, error)
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PostCount int       `json:"post_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every blog post from the store as JSONL to w, sorted by ID.
func ExportJSONL(ctx context.Context, s PostLister, w io.Writer) error {
	posts, err := s.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		PostCount: len(posts),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, p := range posts {
		if err := enc.Encode(record{Type: "post", Data: p}); err != nil {
			return fmt.Errorf("encode post %d: %w", p.ID, err)
		}
	}

	return nil
}
