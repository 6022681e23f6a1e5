package matches

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/scoreboard-service/internal/forms"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
)

var (
	// ErrMissingTeams is returned when a team name is blank.
	ErrMissingTeams = errors.New("home and away team names are required")
	// ErrPartialScores is returned when only one initial score is supplied.
	ErrPartialScores = errors.New("initial scores must be given together")
	// ErrMissingScores is returned when a score update lacks either score.
	ErrMissingScores = errors.New("both home and away scores are required")
)

// Store defines the contract for holding the live scoreboard.
type Store interface {
	Add(m *scoreboard.Match) (scoreboard.MatchView, error)
	UpdateScore(id string, home, away int) (scoreboard.MatchView, error)
	End(id string) error
	List() []scoreboard.MatchView
	Get(id string) (scoreboard.MatchView, bool)
}

// NewMatchInput is a request to start a match. Scores are optional and default to 0.
type NewMatchInput struct {
	HomeTeam  string   `json:"homeTeam"`
	AwayTeam  string   `json:"awayTeam"`
	HomeScore *float64 `json:"homeScore,omitempty"`
	AwayScore *float64 `json:"awayScore,omitempty"`
}

// ScoreInput carries a score change as untyped numbers.
type ScoreInput struct {
	HomeScore *float64 `json:"homeScore"`
	AwayScore *float64 `json:"awayScore"`
}

// Service coordinates match operations using a Store.
type Service struct {
	store    Store
	logger   *slog.Logger
	recorder *metrics.Recorder
}

// NewService constructs a Service with the provided Store.
func NewService(store Store, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{store: store, logger: logger, recorder: recorder}
}

// Summary returns the matches in display order.
func (s *Service) Summary() []scoreboard.MatchView {
	return s.store.List()
}

// Match returns a single match if present.
func (s *Service) Match(id string) (scoreboard.MatchView, bool) {
	return s.store.Get(id)
}

// Add starts a match from API input.
func (s *Service) Add(ctx context.Context, in NewMatchInput) (scoreboard.MatchView, error) {
	m, err := buildMatch(in)
	if err != nil {
		return s.finish(ctx, metrics.OpAdd, "", scoreboard.MatchView{}, err)
	}
	view, err := s.store.Add(m)
	return s.finish(ctx, metrics.OpAdd, m.ID(), view, err)
}

// AddFromForm starts a match from the add-match form.
func (s *Service) AddFromForm(ctx context.Context, f forms.AddMatchForm) (scoreboard.MatchView, error) {
	if !f.HasTeams() {
		return s.finish(ctx, metrics.OpAdd, "", scoreboard.MatchView{}, ErrMissingTeams)
	}
	m, err := f.Build()
	if err != nil {
		return s.finish(ctx, metrics.OpAdd, "", scoreboard.MatchView{}, err)
	}
	view, err := s.store.Add(m)
	return s.finish(ctx, metrics.OpAdd, m.ID(), view, err)
}

// UpdateScore replaces both scores of a match.
func (s *Service) UpdateScore(ctx context.Context, id string, in ScoreInput) (scoreboard.MatchView, error) {
	if in.HomeScore == nil || in.AwayScore == nil {
		return s.finish(ctx, metrics.OpUpdate, id, scoreboard.MatchView{}, ErrMissingScores)
	}
	home, away, err := scoreboard.IntegerScores(*in.HomeScore, *in.AwayScore)
	if err != nil {
		return s.finish(ctx, metrics.OpUpdate, id, scoreboard.MatchView{}, err)
	}
	view, err := s.store.UpdateScore(id, home, away)
	return s.finish(ctx, metrics.OpUpdate, id, view, err)
}

// UpdateFromForm applies the edit dialog to a match.
func (s *Service) UpdateFromForm(ctx context.Context, id string, f forms.EditScoreForm) (scoreboard.MatchView, error) {
	home, away, err := f.Scores()
	if err != nil {
		return s.finish(ctx, metrics.OpUpdate, id, scoreboard.MatchView{}, err)
	}
	view, err := s.store.UpdateScore(id, home, away)
	return s.finish(ctx, metrics.OpUpdate, id, view, err)
}

// End removes a match from the board.
func (s *Service) End(ctx context.Context, id string) error {
	_, err := s.finish(ctx, metrics.OpEnd, id, scoreboard.MatchView{}, s.store.End(id))
	return err
}

func (s *Service) finish(ctx context.Context, op, id string, view scoreboard.MatchView, err error) (scoreboard.MatchView, error) {
	s.recorder.RecordMatchOperation(op, err)
	logger := logging.FromContext(ctx, s.logger)
	if err != nil {
		logging.Warn(logger, "match "+op+" rejected",
			logging.FieldOperation, op,
			logging.FieldMatchID, id,
			"error", err,
		)
		return scoreboard.MatchView{}, err
	}

	s.recorder.SetActiveMatches(len(s.store.List()))
	logging.Info(logger, "match "+op,
		logging.FieldOperation, op,
		logging.FieldMatchID, id,
		logging.FieldMatch, view.Summary,
	)
	return view, nil
}

func buildMatch(in NewMatchInput) (*scoreboard.Match, error) {
	home, away := strings.TrimSpace(in.HomeTeam), strings.TrimSpace(in.AwayTeam)
	if home == "" || away == "" {
		return nil, ErrMissingTeams
	}
	switch {
	case in.HomeScore == nil && in.AwayScore == nil:
		return scoreboard.NewMatch(home, away)
	case in.HomeScore == nil || in.AwayScore == nil:
		return nil, ErrPartialScores
	}
	hs, as, err := scoreboard.IntegerScores(*in.HomeScore, *in.AwayScore)
	if err != nil {
		return nil, err
	}
	return scoreboard.NewMatch(home, away, scoreboard.WithScores(hs, as))
}
