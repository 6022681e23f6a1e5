package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/scoreboard-service/internal/app/matches"
	"github.com/preston-bernstein/scoreboard-service/internal/forms"
	"github.com/preston-bernstein/scoreboard-service/internal/http/middleware"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeInvalidScore     = "invalid_score"
	CodeNegativeScore    = "negative_score"
	CodeMatchNotFound    = "match_not_found"
	CodeDuplicateMatch   = "duplicate_match"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeUnavailable      = "unavailable"
	CodeInternal         = "internal"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(middleware.HeaderRequestID)
	}
	body := map[string]string{"error": message, "code": code}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeServiceError maps domain and service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, scoreboard.ErrInvalidScore):
		writeError(w, r, http.StatusUnprocessableEntity, CodeInvalidScore, err.Error(), logger)
	case errors.Is(err, scoreboard.ErrNegativeScore):
		writeError(w, r, http.StatusUnprocessableEntity, CodeNegativeScore, err.Error(), logger)
	case errors.Is(err, scoreboard.ErrMatchNotFound):
		writeError(w, r, http.StatusNotFound, CodeMatchNotFound, err.Error(), logger)
	case errors.Is(err, scoreboard.ErrDuplicateMatch):
		writeError(w, r, http.StatusConflict, CodeDuplicateMatch, err.Error(), logger)
	case errors.Is(err, matches.ErrMissingTeams),
		errors.Is(err, matches.ErrPartialScores),
		errors.Is(err, matches.ErrMissingScores),
		errors.Is(err, forms.ErrFormIncomplete):
		writeError(w, r, http.StatusBadRequest, CodeInvalidRequest, err.Error(), logger)
	default:
		logging.Error(loggerFromContext(r, logger), "unexpected service error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "internal error", logger)
	}
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
