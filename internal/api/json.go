package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/sitesearch/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// errResponse is the body of every non-2xx API reply.
type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps sentinel errors from apperr to a status code and an
// {"error": ...} body. Unknown errors become a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(apperr.ErrNotFound.Error()))
	case errors.Is(err, apperr.ErrInvalidPath), errors.Is(err, apperr.ErrBadPattern):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error("api request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
