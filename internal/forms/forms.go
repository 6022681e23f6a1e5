// Package forms holds the input rules of the scoreboard screens: the add-match
// form and the edit-score dialog. Inputs arrive as raw text and are only turned
// into core calls once the submit rules pass.
package forms

import (
	"errors"
	"strings"

	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
)

// ErrFormIncomplete is returned when Build or Scores is called while submission is disabled.
var ErrFormIncomplete = errors.New("form is not ready to submit")

// AddMatchForm mirrors the add-match inputs. Scores are optional but must be
// given together.
type AddMatchForm struct {
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore string `json:"homeScore"`
	AwayScore string `json:"awayScore"`
}

// HasTeams reports whether both team names are filled in.
func (f AddMatchForm) HasTeams() bool {
	return strings.TrimSpace(f.HomeTeam) != "" && strings.TrimSpace(f.AwayTeam) != ""
}

// CanSubmit is true when both names are set and the scores are either both
// empty or both valid non-negative integers.
func (f AddMatchForm) CanSubmit() bool {
	if !f.HasTeams() {
		return false
	}
	homeEmpty, awayEmpty := isBlank(f.HomeScore), isBlank(f.AwayScore)
	if homeEmpty && awayEmpty {
		return true
	}
	if homeEmpty || awayEmpty {
		return false
	}
	return validScore(f.HomeScore) && validScore(f.AwayScore)
}

// HomeScoreInvalid flags a typed home score that would be rejected.
func (f AddMatchForm) HomeScoreInvalid() bool {
	return !isBlank(f.HomeScore) && !validScore(f.HomeScore)
}

// AwayScoreInvalid flags a typed away score that would be rejected.
func (f AddMatchForm) AwayScoreInvalid() bool {
	return !isBlank(f.AwayScore) && !validScore(f.AwayScore)
}

// Build creates the match described by the form.
func (f AddMatchForm) Build() (*scoreboard.Match, error) {
	if !f.CanSubmit() {
		return nil, ErrFormIncomplete
	}
	home, away := strings.TrimSpace(f.HomeTeam), strings.TrimSpace(f.AwayTeam)
	if isBlank(f.HomeScore) {
		return scoreboard.NewMatch(home, away)
	}
	hs, as, err := scoreboard.ParseScores(f.HomeScore, f.AwayScore)
	if err != nil {
		return nil, err
	}
	return scoreboard.NewMatch(home, away, scoreboard.WithScores(hs, as))
}

// EditScoreForm mirrors the edit dialog: both new scores are required.
type EditScoreForm struct {
	HomeScore string `json:"homeScore"`
	AwayScore string `json:"awayScore"`
}

// CanSubmit is true when both fields hold valid non-negative integers.
func (f EditScoreForm) CanSubmit() bool {
	return validScore(f.HomeScore) && validScore(f.AwayScore)
}

// Scores parses the dialog fields. A non-integral field is reported before a
// negative one, and the error names the side.
func (f EditScoreForm) Scores() (int, int, error) {
	if isBlank(f.HomeScore) || isBlank(f.AwayScore) {
		return 0, 0, ErrFormIncomplete
	}
	return scoreboard.ParseScores(f.HomeScore, f.AwayScore)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validScore(s string) bool {
	_, err := scoreboard.ParseScore(s)
	return err == nil
}
