package ripple

import "sync/atomic"

// runtimeStats are the only runtime fields touched from other goroutines,
// so they are atomic even though the graph itself is single-goroutine.
type runtimeStats struct {
	flushes        atomic.Uint64
	watcherRuns    atomic.Uint64
	notifies       atomic.Uint64
	circularAborts atomic.Uint64
}

// Stats is a point-in-time snapshot of a runtime's counters.
type Stats struct {
	// Flushes is the number of completed scheduler flushes.
	Flushes uint64 `json:"flushes"`
	// WatcherRuns is the number of watcher executions performed by flushes.
	WatcherRuns uint64 `json:"watcher_runs"`
	// Notifies is the number of dep notifications triggered by writes.
	Notifies uint64 `json:"notifies"`
	// CircularAborts is the number of flushes abandoned by the runaway
	// update guard.
	CircularAborts uint64 `json:"circular_aborts"`
}

// Stats returns a snapshot of the runtime's counters. Safe to call from
// any goroutine.
func (rt *Runtime) Stats() Stats {
	return Stats{
		Flushes:        rt.stats.flushes.Load(),
		WatcherRuns:    rt.stats.watcherRuns.Load(),
		Notifies:       rt.stats.notifies.Load(),
		CircularAborts: rt.stats.circularAborts.Load(),
	}
}

// FlushReport summarizes one scheduler flush for the flush observer hook.
type FlushReport struct {
	// Queued is how many watchers were in the queue when the flush began,
	// plus any spliced in while it ran.
	Queued int
	// Runs is how many watchers actually executed.
	Runs int
	// Aborted is true when the runaway update guard abandoned the queue.
	Aborted bool
}
