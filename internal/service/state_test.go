package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerStateRunGuard(t *testing.T) {
	state := NewWorkerState()

	require.True(t, state.TryStartRun())
	assert.False(t, state.TryStartRun(), "second start must be rejected while running")

	state.FinishRun(0, false)
	assert.True(t, state.TryStartRun(), "guard must release after finish")
	state.FinishRun(0, false)
}

func TestWorkerStateGuardUnderContention(t *testing.T) {
	state := NewWorkerState()

	const attempts = 64
	var wg sync.WaitGroup
	var acquired int32
	results := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- state.TryStartRun()
		}()
	}
	wg.Wait()
	close(results)

	for ok := range results {
		if ok {
			acquired++
		}
	}
	assert.EqualValues(t, 1, acquired, "exactly one goroutine may hold the guard")
}

func TestWorkerStateTimestampsOnlyOnCompletion(t *testing.T) {
	state := NewWorkerState()

	require.True(t, state.TryStartRun())
	state.FinishRun(3, false)

	snap := state.Snapshot()
	assert.True(t, snap.LastRun.IsZero(), "failed run must not advance last run")
	assert.Zero(t, snap.BetsToday)

	require.True(t, state.TryStartRun())
	state.FinishRun(3, true)

	snap = state.Snapshot()
	assert.False(t, snap.LastRun.IsZero())
	assert.Equal(t, 3, snap.BetsToday)

	// A second completed run the same day accumulates.
	require.True(t, state.TryStartRun())
	state.FinishRun(2, true)
	assert.Equal(t, 5, state.Snapshot().BetsToday)
}

func TestWorkerStateSeedBetsToday(t *testing.T) {
	state := NewWorkerState()

	// Seeding restores the counter, as on a worker restart, and completed
	// runs accumulate on top of it.
	state.SeedBetsToday(7)
	assert.Equal(t, 7, state.Snapshot().BetsToday)

	require.True(t, state.TryStartRun())
	state.FinishRun(2, true)
	assert.Equal(t, 9, state.Snapshot().BetsToday)
}

func TestWorkerStateRunStartTimestamp(t *testing.T) {
	state := NewWorkerState()
	assert.True(t, state.Snapshot().RunStartedAt.IsZero())

	require.True(t, state.TryStartRun())
	snap := state.Snapshot()
	assert.False(t, snap.RunStartedAt.IsZero())
	assert.False(t, snap.RunStartedAt.Before(snap.StartedAt))
	state.FinishRun(0, true)
}

func TestWorkerStateSnapshotReportsRunning(t *testing.T) {
	state := NewWorkerState()
	assert.False(t, state.Snapshot().Running)

	require.True(t, state.TryStartRun())
	assert.True(t, state.Snapshot().Running)
	state.FinishRun(0, true)
	assert.False(t, state.Snapshot().Running)
}
