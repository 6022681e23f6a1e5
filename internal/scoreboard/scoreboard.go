package scoreboard

import (
	"cmp"
	"slices"
)

type entry struct {
	match *Match
	seq   uint64
}

// Scoreboard holds the matches currently in play and defines their display order.
// It is not safe for concurrent use; wrap it (see store.MemoryStore) when sharing.
type Scoreboard struct {
	entries []entry
	nextSeq uint64
}

// New returns an empty board.
func New() *Scoreboard {
	return &Scoreboard{}
}

// AddMatch appends a match. The same instance, or another match carrying the
// same ID, cannot be added twice.
func (b *Scoreboard) AddMatch(m *Match) error {
	if m == nil {
		return ErrNilMatch
	}
	for _, e := range b.entries {
		if e.match == m || e.match.id == m.id {
			return ErrDuplicateMatch
		}
	}
	b.nextSeq++
	b.entries = append(b.entries, entry{match: m, seq: b.nextSeq})
	return nil
}

// UpdateScore routes a score change to a member match.
func (b *Scoreboard) UpdateScore(m *Match, home, away int) error {
	if b.indexOf(m) < 0 {
		return ErrMatchNotFound
	}
	return m.UpdateScore(home, away)
}

// EndMatch removes a member match, keeping the others in arrival order.
func (b *Scoreboard) EndMatch(m *Match) error {
	idx := b.indexOf(m)
	if idx < 0 {
		return ErrMatchNotFound
	}
	b.entries = slices.Delete(b.entries, idx, idx+1)
	return nil
}

// Matches returns the summary: highest total first, and among equal totals the
// most recently added first. The slice is a fresh copy on every call.
func (b *Scoreboard) Matches() []*Match {
	sorted := slices.Clone(b.entries)
	slices.SortFunc(sorted, compareEntries)

	out := make([]*Match, len(sorted))
	for i, e := range sorted {
		out[i] = e.match
	}
	return out
}

// Views is Matches rendered as value copies.
func (b *Scoreboard) Views() []MatchView {
	matches := b.Matches()
	out := make([]MatchView, len(matches))
	for i, m := range matches {
		out[i] = m.View()
	}
	return out
}

// Find looks a member up by ID.
func (b *Scoreboard) Find(id string) (*Match, bool) {
	for _, e := range b.entries {
		if e.match.id == id {
			return e.match, true
		}
	}
	return nil, false
}

// Len reports how many matches are on the board.
func (b *Scoreboard) Len() int {
	return len(b.entries)
}

func (b *Scoreboard) indexOf(m *Match) int {
	if m == nil {
		return -1
	}
	return slices.IndexFunc(b.entries, func(e entry) bool { return e.match == m })
}

func compareEntries(a, b entry) int {
	if c := cmp.Compare(b.match.TotalScore(), a.match.TotalScore()); c != 0 {
		return c
	}
	return cmp.Compare(b.seq, a.seq)
}
