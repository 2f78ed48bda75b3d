package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// healthTimeout bounds the store ping behind GET /health.
const healthTimeout = 2 * time.Second

// NewHTTPHandler returns an http.Handler with all routes registered and the
// request ID, access log, and panic recovery middleware applied.
func (s *BlogServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /config", s.handleConfig)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /blog-posts/random", s.handleRandomPost)
	mux.HandleFunc("GET /blog-posts/all", s.handleListPosts)
	mux.HandleFunc("GET /blog-posts/{id}", s.handleGetPost)
	mux.HandleFunc("POST /create/new-blog", s.handleCreatePost)
	mux.HandleFunc("DELETE /delete/{id}", s.handleDeletePost)
	mux.HandleFunc("PUT /update/blog-post/{id}", s.handleUpdatePost)
	return RequestIDMiddleware(LoggingMiddleware(RecoveryMiddleware(mux)))
}

// handleIndex handles GET /.
func (s *BlogServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "Hello, world!")
}

// handleConfig handles GET /config.
func (s *BlogServer) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, s.greeting.String())
}

// handleHealth handles GET /health.
func (s *BlogServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses the {id} path segment as a 32-bit post ID.
func pathID(r *http.Request) (int32, error) {
	raw := r.PathValue("id")
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, inputError(fmt.Sprintf("id %q is out of range", raw))
		}
		return 0, inputError(fmt.Sprintf("invalid id %q", raw))
	}
	return int32(n), nil
}

// writeRequestError answers 400 for an inputError anywhere in err's chain and
// 500 for anything else.
func writeRequestError(w http.ResponseWriter, err error) {
	var ie inputError
	if errors.As(err, &ie) {
		writeError(w, http.StatusBadRequest, ie.Error())
		return
	}
	slog.Error("unexpected request error", "err", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeText writes a plain-text response with the given status code.
func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
