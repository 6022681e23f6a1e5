package metrics

import (
	"sync"
	"time"
)

type operationStats struct {
	calls  int
	errors int
}

// Recorder captures lightweight, in-memory metrics about scoreboard activity and
// forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu            sync.Mutex
	ops           map[string]*operationStats
	activeMatches int
	liveClients   int
	otel          *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		ops:  make(map[string]*operationStats),
		otel: otel,
	}
}

// RecordMatchOperation counts a match mutation and whether it failed.
func (r *Recorder) RecordMatchOperation(op string, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.ops[op]
	if !ok {
		stats = &operationStats{}
		r.ops[op] = stats
	}
	stats.calls++
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOperation(op, err)
	}
}

// SetActiveMatches records the number of matches currently on the board.
func (r *Recorder) SetActiveMatches(n int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	delta := n - r.activeMatches
	r.activeMatches = n
	r.mu.Unlock()

	if r.otel != nil && delta != 0 {
		r.otel.addActiveMatches(int64(delta))
	}
}

// AddLiveClients adjusts the count of connected live viewers.
func (r *Recorder) AddLiveClients(delta int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.liveClients += delta
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.addLiveClients(int64(delta))
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot returns a copy of the counters for one operation.
type Snapshot struct {
	Calls  int
	Errors int
}

func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.ops[op]; ok && stats != nil {
		return Snapshot{Calls: stats.calls, Errors: stats.errors}
	}
	return Snapshot{}
}

// ActiveMatches returns the last recorded board size.
func (r *Recorder) ActiveMatches() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeMatches
}

// LiveClients returns the current number of live viewers.
func (r *Recorder) LiveClients() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.liveClients
}
