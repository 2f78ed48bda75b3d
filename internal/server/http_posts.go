package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alfredjeanlab/blogd/internal/events"
	"github.com/alfredjeanlab/blogd/internal/model"
	"github.com/alfredjeanlab/blogd/internal/store"
)

// handleRandomPost handles GET /blog-posts/random. It never touches the store.
func (s *BlogServer) handleRandomPost(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.SamplePost())
}

// handleGetPost handles GET /blog-posts/{id}.
func (s *BlogServer) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "blog post not found")
		return
	}
	if err != nil {
		slog.Error("failed to get blog post", "post_id", id, "request_id", RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get blog post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// handleListPosts handles GET /blog-posts/all.
func (s *BlogServer) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		slog.Error("failed to list blog posts", "request_id", RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list blog posts")
		return
	}

	// Ensure posts is never null in JSON output.
	if posts == nil {
		posts = []*model.BlogPost{}
	}

	writeJSON(w, http.StatusOK, posts)
}

// handleCreatePost handles POST /create/new-blog.
// The caller supplies the ID; a taken ID is a 409.
func (s *BlogServer) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in model.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	post, err := s.store.CreatePost(r.Context(), &in)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "blog post already exists")
		return
	}
	if err != nil {
		slog.Error("failed to create blog post", "post_id", in.ID, "request_id", RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create blog post")
		return
	}

	s.publish(r.Context(), events.TopicPostCreated, post.ID, events.PostCreated{Post: post})

	writeJSON(w, http.StatusOK, post)
}

// handleDeletePost handles DELETE /delete/{id}.
// One deleted row answers 200 with a JSON null body; zero rows answers 204.
func (s *BlogServer) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	deleted, err := s.store.DeletePost(r.Context(), id)
	if err != nil {
		slog.Error("failed to delete blog post", "post_id", id, "request_id", RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, "failed to delete blog post: "+err.Error())
		return
	}
	if !deleted {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.publish(r.Context(), events.TopicPostDeleted, id, events.PostDeleted{PostID: id})

	writeJSON(w, http.StatusOK, nil)
}

// handleUpdatePost handles PUT /update/blog-post/{id}.
// Only title and body are written; the id and published fields of the body
// are ignored. Updating a missing row still succeeds.
func (s *BlogServer) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	var in model.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.store.UpdatePost(r.Context(), id, in.Title, in.Body); err != nil {
		slog.Error("failed to update blog post", "post_id", id, "request_id", RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, "failed to update blog post: "+err.Error())
		return
	}

	s.publish(r.Context(), events.TopicPostUpdated, id, events.PostUpdated{PostID: id, Title: in.Title, Body: in.Body})

	w.WriteHeader(http.StatusOK)
}
