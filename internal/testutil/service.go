package testutil

import (
	"testing"

	"github.com/preston-bernstein/scoreboard-service/internal/app/matches"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/store"
)

// NewServiceWithMatches builds a matches service backed by an in-memory store
// preloaded with the given fixtures, in order.
func NewServiceWithMatches(t *testing.T, fixtures []FixtureScore) (*matches.Service, *store.MemoryStore) {
	t.Helper()
	ms := store.NewMemoryStore()
	for _, f := range fixtures {
		if _, err := ms.Add(SampleMatch(t, f.Home, f.Away, f.HomeScore, f.AwayScore)); err != nil {
			t.Fatalf("failed to seed %s v %s: %v", f.Home, f.Away, err)
		}
	}
	logger, _ := NewBufferLogger()
	return matches.NewService(ms, logger, metrics.NewRecorder()), ms
}
