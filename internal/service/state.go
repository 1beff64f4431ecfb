package service

import (
	"sync"
	"sync/atomic"
	"time"
)

// WorkerState tracks the pipeline worker's run status. The run guard is a
// compare-and-swap so concurrent triggers (cron firing while a chat command
// runs, or vice versa) cannot start overlapping pipeline runs.
type WorkerState struct {
	running atomic.Bool

	mu          sync.RWMutex
	startedAt   time.Time
	runStarted  time.Time
	lastRun     time.Time
	lastRefresh time.Time
	betsToday   int
	betsDate    string // YYYY-MM-DD of the betsToday counter
}

// WorkerSnapshot is a point-in-time copy of the worker state for status
// reporting.
type WorkerSnapshot struct {
	Running      bool      `json:"running"`
	StartedAt    time.Time `json:"started_at"`
	RunStartedAt time.Time `json:"run_started_at"`
	LastRun      time.Time `json:"last_run"`
	LastRefresh  time.Time `json:"last_refresh"`
	BetsToday    int       `json:"bets_today"`
}

// NewWorkerState creates worker state with the start time set to now.
func NewWorkerState() *WorkerState {
	return &WorkerState{startedAt: time.Now().UTC()}
}

// TryStartRun attempts to acquire the run guard. It returns false when a run
// is already in progress.
func (s *WorkerState) TryStartRun() bool {
	if !s.running.CompareAndSwap(false, true) {
		return false
	}
	s.mu.Lock()
	s.runStarted = time.Now().UTC()
	s.mu.Unlock()
	return true
}

// FinishRun releases the run guard. The last-run timestamp and the daily bet
// counter advance only when the run completed, so a failed run stays visible
// as "not run" in status output.
func (s *WorkerState) FinishRun(betsFound int, completed bool) {
	if completed {
		now := time.Now().UTC()
		day := now.Format("2006-01-02")

		s.mu.Lock()
		s.lastRun = now
		if s.betsDate != day {
			s.betsDate = day
			s.betsToday = 0
		}
		s.betsToday += betsFound
		s.mu.Unlock()
	}
	s.running.Store(false)
}

// SeedBetsToday restores the daily bet counter, typically from persisted
// bets after a worker restart.
func (s *WorkerState) SeedBetsToday(count int) {
	s.mu.Lock()
	s.betsDate = time.Now().UTC().Format("2006-01-02")
	s.betsToday = count
	s.mu.Unlock()
}

// MarkRefresh records a successful strength refresh.
func (s *WorkerState) MarkRefresh() {
	s.mu.Lock()
	s.lastRefresh = time.Now().UTC()
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the state.
func (s *WorkerState) Snapshot() WorkerSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := WorkerSnapshot{
		Running:      s.running.Load(),
		StartedAt:    s.startedAt,
		RunStartedAt: s.runStarted,
		LastRun:      s.lastRun,
		LastRefresh:  s.lastRefresh,
		BetsToday:    s.betsToday,
	}
	if snap.BetsToday > 0 && s.betsDate != time.Now().UTC().Format("2006-01-02") {
		snap.BetsToday = 0
	}
	return snap
}
