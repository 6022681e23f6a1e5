package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	nethttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/scoreboard-service/internal/app/matches"
	"github.com/preston-bernstein/scoreboard-service/internal/forms"
	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
)

const maxBodyBytes = 1 << 16

// ListResponse is the payload returned by GET /matches.
type ListResponse struct {
	Matches []scoreboard.MatchView `json:"matches"`
}

// Handler wires HTTP routes to the matches service.
type Handler struct {
	svc    *matches.Service
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(svc *matches.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, CodeUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.svc == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, CodeUnavailable, "not ready", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// ListMatches returns the ordered summary.
func (h *Handler) ListMatches(w nethttp.ResponseWriter, r *nethttp.Request) {
	list := h.svc.Summary()
	if list == nil {
		list = []scoreboard.MatchView{}
	}
	writeJSON(w, nethttp.StatusOK, ListResponse{Matches: list}, h.logger)
}

// GetMatch returns a specific match if present.
func (h *Handler) GetMatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := chi.URLParam(r, "id")
	view, ok := h.svc.Match(id)
	if !ok {
		writeServiceError(w, r, scoreboard.ErrMatchNotFound, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, view, h.logger)
}

// CreateMatch starts a match. JSON bodies carry numeric scores; form posts
// carry the add-match form fields as text.
func (h *Handler) CreateMatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	var (
		view scoreboard.MatchView
		err  error
	)
	if isForm(r) {
		f, perr := parseAddForm(w, r)
		if perr != nil {
			writeError(w, r, nethttp.StatusBadRequest, CodeInvalidRequest, perr.Error(), h.logger)
			return
		}
		view, err = h.svc.AddFromForm(r.Context(), f)
	} else {
		var in matches.NewMatchInput
		if derr := decodeJSON(w, r, &in); derr != nil {
			h.writeDecodeError(w, r, derr)
			return
		}
		view, err = h.svc.Add(r.Context(), in)
	}
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.Header().Set("Location", "/matches/"+view.ID)
	writeJSON(w, nethttp.StatusCreated, view, h.logger)
}

// UpdateScore replaces both scores of a match.
func (h *Handler) UpdateScore(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := chi.URLParam(r, "id")
	var (
		view scoreboard.MatchView
		err  error
	)
	if isForm(r) {
		f, perr := parseEditForm(w, r)
		if perr != nil {
			writeError(w, r, nethttp.StatusBadRequest, CodeInvalidRequest, perr.Error(), h.logger)
			return
		}
		view, err = h.svc.UpdateFromForm(r.Context(), id, f)
	} else {
		var in matches.ScoreInput
		if derr := decodeJSON(w, r, &in); derr != nil {
			h.writeDecodeError(w, r, derr)
			return
		}
		view, err = h.svc.UpdateScore(r.Context(), id, in)
	}
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, view, h.logger)
}

// EndMatch removes a match from the board.
func (h *Handler) EndMatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := h.svc.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, CodeNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes called with the wrong verb.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", h.logger)
}

// writeDecodeError reports a score sent with the wrong JSON type as an invalid
// score, and anything else as a malformed request.
func (h *Handler) writeDecodeError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && strings.HasSuffix(typeErr.Field, "Score") {
		side := scoreboard.SideHome
		if strings.HasPrefix(typeErr.Field, "away") {
			side = scoreboard.SideAway
		}
		writeServiceError(w, r, &scoreboard.ScoreError{Side: side, Value: typeErr.Value, Reason: scoreboard.ErrInvalidScore}, h.logger)
		return
	}
	writeError(w, r, nethttp.StatusBadRequest, CodeInvalidRequest, "invalid request body", h.logger)
}

func decodeJSON(w nethttp.ResponseWriter, r *nethttp.Request, dest any) error {
	dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func isForm(r *nethttp.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

func parseAddForm(w nethttp.ResponseWriter, r *nethttp.Request) (forms.AddMatchForm, error) {
	r.Body = nethttp.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return forms.AddMatchForm{}, fmt.Errorf("invalid form body: %w", err)
	}
	return forms.AddMatchForm{
		HomeTeam:  r.PostForm.Get("homeTeam"),
		AwayTeam:  r.PostForm.Get("awayTeam"),
		HomeScore: r.PostForm.Get("homeScore"),
		AwayScore: r.PostForm.Get("awayScore"),
	}, nil
}

func parseEditForm(w nethttp.ResponseWriter, r *nethttp.Request) (forms.EditScoreForm, error) {
	r.Body = nethttp.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return forms.EditScoreForm{}, fmt.Errorf("invalid form body: %w", err)
	}
	return forms.EditScoreForm{
		HomeScore: r.PostForm.Get("homeScore"),
		AwayScore: r.PostForm.Get("awayScore"),
	}, nil
}
