package export

import (
	"context"

	"github.com/alfredjeanlab/blogd/internal/model"
)

// mockStore is a minimal in-memory PostLister for export tests.
type mockStore struct {
	posts []*model.BlogPost
	err   error
}

func (m *mockStore) ListPosts(context.Context) ([]*model.BlogPost, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*model.BlogPost, len(m.posts))
	copy(out, m.posts)
	return out, nil
}
