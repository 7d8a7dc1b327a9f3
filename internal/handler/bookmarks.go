// Package handler exposes the bookmark service over HTTP/JSON.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mmynk/bookmarks/internal/service"
)

// BookmarkHandler serves /{userId}/bookmarks.
type BookmarkHandler struct {
	svc    *service.BookmarkService
	logger *slog.Logger
}

// NewBookmarkHandler creates a handler backed by svc.
func NewBookmarkHandler(svc *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{svc: svc, logger: logger}
}

// Register mounts the bookmark routes on mux.
func (h *BookmarkHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{userId}/bookmarks", h.list)
	mux.HandleFunc("POST /{userId}/bookmarks", h.create)
	mux.HandleFunc("GET /{userId}/bookmarks/{bookmarkId}", h.get)
	mux.HandleFunc("DELETE /{userId}/bookmarks/{bookmarkId}", h.delete)
}

// bookmarkRequest is the body accepted by POST /{userId}/bookmarks.
type bookmarkRequest struct {
	URI         string `json:"uri"`
	Description string `json:"description"`
}

func (h *BookmarkHandler) list(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.svc.ListBookmarks(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookmarks)
}

func (h *BookmarkHandler) get(w http.ResponseWriter, r *http.Request) {
	bookmarkID, ok := h.bookmarkID(w, r)
	if !ok {
		return
	}

	bookmark, err := h.svc.GetBookmark(r.Context(), r.PathValue("userId"), bookmarkID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookmark)
}

func (h *BookmarkHandler) create(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.writeProblem(w, r, http.StatusBadRequest, "request body is required")
			return
		}
		h.writeProblem(w, r, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	bookmark, err := h.svc.CreateBookmark(r.Context(), r.PathValue("userId"), req.URI, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", resourceURL(r, strconv.FormatInt(bookmark.ID, 10)))
	w.WriteHeader(http.StatusCreated)
}

func (h *BookmarkHandler) delete(w http.ResponseWriter, r *http.Request) {
	bookmarkID, ok := h.bookmarkID(w, r)
	if !ok {
		return
	}

	bookmark, err := h.svc.DeleteBookmark(r.Context(), r.PathValue("userId"), bookmarkID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookmark)
}

// bookmarkID parses the {bookmarkId} path segment, answering 400 on failure.
func (h *BookmarkHandler) bookmarkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("bookmarkId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeProblem(w, r, http.StatusBadRequest, "invalid bookmark id '"+raw+"'")
		return 0, false
	}
	return id, true
}

// resourceURL builds the absolute URL of a child of the current request path.
func resourceURL(r *http.Request, id string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/") + "/" + id
}

func (h *BookmarkHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
