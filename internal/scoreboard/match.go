package scoreboard

import (
	"fmt"

	"github.com/google/uuid"
)

// Match is a contest between a home and an away team. Team names are fixed at
// construction; the score pair only changes through UpdateScore.
type Match struct {
	id        string
	homeTeam  string
	awayTeam  string
	homeScore int
	awayScore int
}

// MatchOption customises a match at construction.
type MatchOption func(*matchConfig)

type matchConfig struct {
	homeScore int
	awayScore int
	id        string
}

// WithScores sets the initial score pair. Without it a match starts at 0 - 0.
func WithScores(home, away int) MatchOption {
	return func(c *matchConfig) {
		c.homeScore = home
		c.awayScore = away
	}
}

// WithID overrides the generated identifier.
func WithID(id string) MatchOption {
	return func(c *matchConfig) {
		c.id = id
	}
}

// NewMatch builds a match. It fails without constructing anything when either
// initial score is rejected.
func NewMatch(homeTeam, awayTeam string, opts ...MatchOption) (*Match, error) {
	var cfg matchConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateScores(cfg.homeScore, cfg.awayScore); err != nil {
		return nil, err
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}
	return &Match{
		id:        cfg.id,
		homeTeam:  homeTeam,
		awayTeam:  awayTeam,
		homeScore: cfg.homeScore,
		awayScore: cfg.awayScore,
	}, nil
}

// UpdateScore replaces both scores. On error the previous pair is kept.
func (m *Match) UpdateScore(home, away int) error {
	if err := validateScores(home, away); err != nil {
		return err
	}
	m.homeScore = home
	m.awayScore = away
	return nil
}

// TotalScore is the sum of both scores; it drives the summary order.
func (m *Match) TotalScore() int {
	return m.homeScore + m.awayScore
}

// String renders the match as "Home 2 - 1 Away".
func (m *Match) String() string {
	return fmt.Sprintf("%s %d - %d %s", m.homeTeam, m.homeScore, m.awayScore, m.awayTeam)
}

func (m *Match) ID() string       { return m.id }
func (m *Match) HomeTeam() string { return m.homeTeam }
func (m *Match) AwayTeam() string { return m.awayTeam }
func (m *Match) HomeScore() int   { return m.homeScore }
func (m *Match) AwayScore() int   { return m.awayScore }

// View returns a value copy of the match for callers outside the board.
func (m *Match) View() MatchView {
	return MatchView{
		ID:         m.id,
		HomeTeam:   m.homeTeam,
		AwayTeam:   m.awayTeam,
		HomeScore:  m.homeScore,
		AwayScore:  m.awayScore,
		TotalScore: m.TotalScore(),
		Summary:    m.String(),
	}
}

// MatchView is the read-only shape exposed by the store and the API.
type MatchView struct {
	ID         string `json:"id"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
	TotalScore int    `json:"totalScore"`
	Summary    string `json:"summary"`
}
