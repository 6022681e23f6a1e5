package forms

import (
	"errors"
	"testing"

	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
)

func TestAddMatchFormCanSubmit(t *testing.T) {
	cases := []struct {
		name string
		form AddMatchForm
		want bool
	}{
		{"empty", AddMatchForm{}, false},
		{"home name only", AddMatchForm{HomeTeam: "Spain"}, false},
		{"blank away name", AddMatchForm{HomeTeam: "Spain", AwayTeam: "   "}, false},
		{"names without scores", AddMatchForm{HomeTeam: "Spain", AwayTeam: "Brazil"}, true},
		{"names with scores", AddMatchForm{HomeTeam: "Spain", AwayTeam: "Brazil", HomeScore: "10", AwayScore: "2"}, true},
		{"only home score", AddMatchForm{HomeTeam: "Spain", AwayTeam: "Brazil", HomeScore: "1"}, false},
		{"only away score", AddMatchForm{HomeTeam: "Spain", AwayTeam: "Brazil", AwayScore: "1"}, false},
		{"negative score", AddMatchForm{HomeTeam: "Spain", AwayTeam: "Brazil", HomeScore: "-1", AwayScore: "0"}, false},
		{"fractional score", AddMatchForm{HomeTeam: "Spain", AwayTeam: "Brazil", HomeScore: "1.5", AwayScore: "0"}, false},
		{"text score", AddMatchForm{HomeTeam: "Spain", AwayTeam: "Brazil", HomeScore: "one", AwayScore: "0"}, false},
		{"scores without names", AddMatchForm{HomeScore: "1", AwayScore: "1"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.form.CanSubmit(); got != tc.want {
				t.Fatalf("expected CanSubmit %v, got %v", tc.want, got)
			}
		})
	}
}

func TestAddMatchFormInvalidFlags(t *testing.T) {
	f := AddMatchForm{HomeScore: "abc", AwayScore: ""}
	if !f.HomeScoreInvalid() {
		t.Fatal("expected home score flagged")
	}
	if f.AwayScoreInvalid() {
		t.Fatal("expected empty away score not flagged")
	}

	f = AddMatchForm{HomeScore: "3", AwayScore: "-2"}
	if f.HomeScoreInvalid() {
		t.Fatal("expected valid home score not flagged")
	}
	if !f.AwayScoreInvalid() {
		t.Fatal("expected negative away score flagged")
	}
}

func TestAddMatchFormBuildDefaultsScores(t *testing.T) {
	m, err := AddMatchForm{HomeTeam: " Mexico ", AwayTeam: "Canada"}.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.String() != "Mexico 0 - 0 Canada" {
		t.Fatalf("unexpected match %s", m)
	}
}

func TestAddMatchFormBuildWithScores(t *testing.T) {
	m, err := AddMatchForm{HomeTeam: "Mexico", AwayTeam: "Canada", HomeScore: "0", AwayScore: "5"}.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.String() != "Mexico 0 - 5 Canada" {
		t.Fatalf("unexpected match %s", m)
	}
}

func TestAddMatchFormBuildDisabled(t *testing.T) {
	m, err := AddMatchForm{HomeTeam: "Mexico"}.Build()
	if m != nil || !errors.Is(err, ErrFormIncomplete) {
		t.Fatalf("expected ErrFormIncomplete, got %v", err)
	}
}

func TestEditScoreForm(t *testing.T) {
	cases := []struct {
		name    string
		form    EditScoreForm
		enabled bool
		wantErr error
	}{
		{"both valid", EditScoreForm{HomeScore: "2", AwayScore: "1"}, true, nil},
		{"missing away", EditScoreForm{HomeScore: "2"}, false, ErrFormIncomplete},
		{"negative", EditScoreForm{HomeScore: "2", AwayScore: "-1"}, false, scoreboard.ErrNegativeScore},
		{"fractional", EditScoreForm{HomeScore: "2.5", AwayScore: "1"}, false, scoreboard.ErrInvalidScore},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.form.CanSubmit(); got != tc.enabled {
				t.Fatalf("expected CanSubmit %v, got %v", tc.enabled, got)
			}
			home, away, err := tc.form.Scores()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || home != 2 || away != 1 {
				t.Fatalf("expected 2-1, got %d-%d (%v)", home, away, err)
			}
		})
	}
}

func TestEditScoreFormReportsInvalidBeforeNegative(t *testing.T) {
	_, _, err := EditScoreForm{HomeScore: "-1", AwayScore: "1.5"}.Scores()
	if !errors.Is(err, scoreboard.ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
	var se *scoreboard.ScoreError
	if !errors.As(err, &se) || se.Side != scoreboard.SideAway {
		t.Fatalf("expected away side on error, got %v", err)
	}

	_, _, err = EditScoreForm{HomeScore: "2", AwayScore: "-1"}.Scores()
	if !errors.As(err, &se) || se.Side != scoreboard.SideAway || !errors.Is(err, scoreboard.ErrNegativeScore) {
		t.Fatalf("expected negative away score error, got %v", err)
	}
}

func TestAddMatchFormRejectsOutOfRangeScore(t *testing.T) {
	f := AddMatchForm{HomeTeam: "Mexico", AwayTeam: "Canada", HomeScore: "1", AwayScore: "99999999999"}
	if f.CanSubmit() {
		t.Fatalf("expected out-of-range score to disable submit")
	}
	if _, err := f.Build(); !errors.Is(err, ErrFormIncomplete) {
		t.Fatalf("expected ErrFormIncomplete, got %v", err)
	}
}
