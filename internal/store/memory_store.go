package store

import (
	"sync"

	"github.com/preston-bernstein/scoreboard-service/internal/scoreboard"
)

// Snapshot is the board as seen right after a mutation.
type Snapshot struct {
	Version uint64                 `json:"version"`
	Matches []scoreboard.MatchView `json:"matches"`
}

// MemoryStore keeps a thread-safe scoreboard in memory and keys matches by ID.
// Every successful mutation publishes a fresh Snapshot to subscribers.
type MemoryStore struct {
	mu      sync.RWMutex
	board   *scoreboard.Scoreboard
	version uint64

	subMu  sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		board: scoreboard.New(),
		subs:  make(map[int]chan Snapshot),
	}
}

// Add puts a new match on the board.
func (s *MemoryStore) Add(m *scoreboard.Match) (scoreboard.MatchView, error) {
	s.mu.Lock()
	if err := s.board.AddMatch(m); err != nil {
		s.mu.Unlock()
		return scoreboard.MatchView{}, err
	}
	view := m.View()
	s.commitLocked()
	s.mu.Unlock()
	return view, nil
}

// UpdateScore changes the score of the match with the given ID.
func (s *MemoryStore) UpdateScore(id string, home, away int) (scoreboard.MatchView, error) {
	s.mu.Lock()
	m, ok := s.board.Find(id)
	if !ok {
		s.mu.Unlock()
		return scoreboard.MatchView{}, scoreboard.ErrMatchNotFound
	}
	if err := s.board.UpdateScore(m, home, away); err != nil {
		s.mu.Unlock()
		return scoreboard.MatchView{}, err
	}
	view := m.View()
	s.commitLocked()
	s.mu.Unlock()
	return view, nil
}

// End removes the match with the given ID.
func (s *MemoryStore) End(id string) error {
	s.mu.Lock()
	m, ok := s.board.Find(id)
	if !ok {
		s.mu.Unlock()
		return scoreboard.ErrMatchNotFound
	}
	if err := s.board.EndMatch(m); err != nil {
		s.mu.Unlock()
		return err
	}
	s.commitLocked()
	s.mu.Unlock()
	return nil
}

// List returns the ordered summary as value copies.
func (s *MemoryStore) List() []scoreboard.MatchView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.board.Views()
}

// Get retrieves a match by ID.
func (s *MemoryStore) Get(id string) (scoreboard.MatchView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.board.Find(id)
	if !ok {
		return scoreboard.MatchView{}, false
	}
	return m.View(), true
}

// Snapshot returns the current board and its version.
func (s *MemoryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{Version: s.version, Matches: s.board.Views()}
}

// Subscribe registers for snapshots. A subscriber that falls behind only keeps
// the latest snapshot. The returned func unsubscribes and closes the channel.
func (s *MemoryStore) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// commitLocked bumps the version and publishes while the write lock is held so
// subscribers see snapshots in version order.
func (s *MemoryStore) commitLocked() {
	s.version++
	s.publish(Snapshot{Version: s.version, Matches: s.board.Views()})
}

func (s *MemoryStore) publish(snap Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		for {
			select {
			case ch <- snap:
			default:
				// Full: drop the oldest queued snapshot and retry.
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}
