package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alfredjeanlab/blogd/internal/events"
	"github.com/alfredjeanlab/blogd/internal/model"
	"github.com/alfredjeanlab/blogd/internal/store"
	"github.com/alfredjeanlab/blogd/internal/store/sqlite"
)

// newSQLiteServer starts an httptest.Server over a real SQLite-backed store.
func newSQLiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "blog.db"), store.PoolOptions{MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(NewBlogServer(st, &events.NoopPublisher{}, testGreeting).NewHTTPHandler())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func listPosts(t *testing.T, srv *httptest.Server) []model.BlogPost {
	t.Helper()
	code, data := call(t, srv, "GET", "/blog-posts/all", nil)
	if code != http.StatusOK {
		t.Fatalf("list: status %d: %s", code, data)
	}
	var posts []model.BlogPost
	if err := json.Unmarshal(data, &posts); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return posts
}

func TestSQLite_CreateThenGet(t *testing.T) {
	srv := newSQLiteServer(t)
	in := model.BlogPost{ID: 42, Title: "Hello", Body: "World", Published: true}

	if code, data := call(t, srv, "POST", "/create/new-blog", in); code != http.StatusOK {
		t.Fatalf("create: status %d: %s", code, data)
	}

	code, data := call(t, srv, "GET", "/blog-posts/42", nil)
	if code != http.StatusOK {
		t.Fatalf("get: status %d: %s", code, data)
	}
	var got model.BlogPost
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != in {
		t.Fatalf("got %+v, want %+v", got, in)
	}
}

func TestSQLite_DuplicateCreate(t *testing.T) {
	srv := newSQLiteServer(t)
	post := model.BlogPost{ID: 1, Title: "a"}

	call(t, srv, "POST", "/create/new-blog", post)
	if code, _ := call(t, srv, "POST", "/create/new-blog", post); code != http.StatusConflict {
		t.Fatalf("duplicate create: status %d, want 409", code)
	}
}

func TestSQLite_GetMissing(t *testing.T) {
	srv := newSQLiteServer(t)
	if code, _ := call(t, srv, "GET", "/blog-posts/9", nil); code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", code)
	}
}

func TestSQLite_DeleteRemovesFromList(t *testing.T) {
	srv := newSQLiteServer(t)
	for i := int32(1); i <= 3; i++ {
		call(t, srv, "POST", "/create/new-blog", model.BlogPost{ID: i, Title: fmt.Sprint(i)})
	}

	code, data := call(t, srv, "DELETE", "/delete/2", nil)
	if code != http.StatusOK || string(bytes.TrimSpace(data)) != "null" {
		t.Fatalf("delete: status %d body %q", code, data)
	}

	posts := listPosts(t, srv)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	for _, p := range posts {
		if p.ID == 2 {
			t.Fatal("deleted post still listed")
		}
	}
}

func TestSQLite_DeleteMissing(t *testing.T) {
	srv := newSQLiteServer(t)
	code, data := call(t, srv, "DELETE", "/delete/5", nil)
	if code != http.StatusNoContent || len(data) != 0 {
		t.Fatalf("status %d body %q, want 204 with empty body", code, data)
	}
}

func TestSQLite_UpdateChangesOnlyTitleAndBody(t *testing.T) {
	srv := newSQLiteServer(t)
	call(t, srv, "POST", "/create/new-blog", model.BlogPost{ID: 3, Title: "old", Body: "old", Published: true})

	code, data := call(t, srv, "PUT", "/update/blog-post/3", model.BlogPost{ID: 100, Title: "new", Body: "newer", Published: false})
	if code != http.StatusOK || len(data) != 0 {
		t.Fatalf("update: status %d body %q", code, data)
	}

	posts := listPosts(t, srv)
	want := model.BlogPost{ID: 3, Title: "new", Body: "newer", Published: true}
	if len(posts) != 1 || posts[0] != want {
		t.Fatalf("posts = %+v, want [%+v]", posts, want)
	}
}

func TestSQLite_UpdateMissing(t *testing.T) {
	srv := newSQLiteServer(t)
	if code, _ := call(t, srv, "PUT", "/update/blog-post/3", model.BlogPost{Title: "t"}); code != http.StatusOK {
		t.Fatalf("status %d, want 200", code)
	}
	if posts := listPosts(t, srv); len(posts) != 0 {
		t.Fatalf("update of a missing post created %+v", posts)
	}
}

func TestSQLite_ConcurrentCreates(t *testing.T) {
	srv := newSQLiteServer(t)
	const n = 25

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int32) {
			defer wg.Done()
			b, _ := json.Marshal(model.BlogPost{ID: id, Title: fmt.Sprint(id)})
			resp, err := srv.Client().Post(srv.URL+"/create/new-blog", "application/json", bytes.NewReader(b))
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("create %d: status %d", id, resp.StatusCode)
			}
		}(int32(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	posts := listPosts(t, srv)
	if len(posts) != n {
		t.Fatalf("expected %d posts, got %d", n, len(posts))
	}
	for i, p := range posts {
		if p.ID != int32(i+1) {
			t.Fatalf("posts not ordered by id: %+v", posts)
		}
	}
}
