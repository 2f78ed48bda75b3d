package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alfredjeanlab/blogd/internal/model"
)

func TestExportJSONL_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), &mockStore{}, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.PostCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_SortsPosts(t *testing.T) {
	ms := &mockStore{posts: []*model.BlogPost{
		{ID: 30, Title: "Third", Body: "<b>html</b>"},
		{ID: 10, Title: "First", Published: true},
		{ID: 20, Title: "Second"},
	}}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.PostCount != 3 {
		t.Fatalf("header post_count = %d, want 3", h.PostCount)
	}

	var got []int32
	for _, line := range lines[1:] {
		var rec struct {
			Type string         `json:"type"`
			Data model.BlogPost `json:"data"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		if rec.Type != "post" {
			t.Fatalf("record type = %q, want post", rec.Type)
		}
		got = append(got, rec.Data.ID)
	}
	if got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Fatalf("posts not sorted by id: %v", got)
	}

	// HTML is written verbatim, not escaped.
	if !strings.Contains(lines[3], "<b>html</b>") {
		t.Fatalf("expected unescaped HTML in %s", lines[3])
	}
}

func TestExportJSONL_StoreError(t *testing.T) {
	ms := &mockStore{err: errors.New("db down")}
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
