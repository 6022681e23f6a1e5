package testutil

import (
	"testing"

	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
)

// FixtureScore describes a match by team names and score.
type FixtureScore struct {
	Home, Away           string
	HomeScore, AwayScore int
}

// WorldCupFixtures are five matches added in this order. Their expected
// summary order is WorldCupSummary.
var WorldCupFixtures = []FixtureScore{
	{"Mexico", "Canada", 0, 5},
	{"Spain", "Brazil", 10, 2},
	{"Germany", "France", 2, 2},
	{"Uruguay", "Italy", 6, 6},
	{"Argentina", "Australia", 3, 1},
}

// WorldCupSummary is the ordered summary of WorldCupFixtures.
var WorldCupSummary = []string{
	"Uruguay 6 - 6 Italy",
	"Spain 10 - 2 Brazil",
	"Mexico 0 - 5 Canada",
	"Argentina 3 - 1 Australia",
	"Germany 2 - 2 France",
}

// SampleMatch builds a match or fails the test.
func SampleMatch(t *testing.T, home, away string, hs, as int) *scoreboard.Match {
	t.Helper()
	m, err := scoreboard.NewMatch(home, away, scoreboard.WithScores(hs, as))
	if err != nil {
		t.Fatalf("failed to build match %s v %s: %v", home, away, err)
	}
	return m
}
