package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mmynk/bookmarks/internal/middleware"
	"github.com/mmynk/bookmarks/internal/service"
)

// problem is the JSON error body.
type problem struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// writeError maps service errors onto HTTP statuses. Anything unrecognised
// is a 500 and its details stay in the log.
func (h *BookmarkHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		userErr     *service.UserNotFoundError
		bookmarkErr *service.BookmarkNotFoundError
	)
	switch {
	case errors.As(err, &userErr), errors.As(err, &bookmarkErr):
		h.writeProblem(w, r, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		h.writeProblem(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *BookmarkHandler) writeProblem(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
		Path:    r.URL.Path,
	})
}
