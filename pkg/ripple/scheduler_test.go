package ripple

import (
	"errors"
	"testing"
)

func TestFlushRunsInCreationOrder(t *testing.T) {
	rt := New()
	state := ObjectOf(rt, map[string]any{"n": 0})
	Observe(rt, state, false)

	var order []string
	mk := func(name string) {
		NewWatcher(rt, state, "n", func(newVal, oldVal any) {
			order = append(order, name)
		}, WatchOptions{User: true})
	}
	mk("first")
	mk("second")
	mk("third")

	state.Set("n", 1)
	rt.Tick()

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("ran %d watchers, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("run order %v, want %v", order, want)
		}
	}
}

func TestFlushSortsRegardlessOfNotificationOrder(t *testing.T) {
	rt := New()
	state := ObjectOf(rt, map[string]any{"a": 0, "b": 0})
	Observe(rt, state, false)

	var order []string
	NewWatcher(rt, state, "a", func(newVal, oldVal any) {
		order = append(order, "older")
	}, WatchOptions{User: true})
	NewWatcher(rt, state, "b", func(newVal, oldVal any) {
		order = append(order, "newer")
	}, WatchOptions{User: true})

	// Notify the newer watcher first; the flush still sorts by identity.
	state.Set("b", 1)
	state.Set("a", 1)
	rt.Tick()

	if len(order) != 2 || order[0] != "older" || order[1] != "newer" {
		t.Errorf("run order %v, want [older newer]", order)
	}
}

func TestMidFlushEnqueueRunsWithinSameFlush(t *testing.T) {
	rt := New()
	state := ObjectOf(rt, map[string]any{"a": 0, "b": 0})
	Observe(rt, state, false)

	var order []string
	NewWatcher(rt, state, "a", func(newVal, oldVal any) {
		order = append(order, "a")
		// Writing b mid-flush splices b's watcher behind the cursor.
		state.Set("b", newVal)
	}, WatchOptions{User: true})
	NewWatcher(rt, state, "b", func(newVal, oldVal any) {
		order = append(order, "b")
	}, WatchOptions{User: true})

	state.Set("a", 1)
	rt.Tick()

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("run order %v, want [a b]", order)
	}
	if rt.HasPendingWork() {
		t.Error("mid-flush work should not leak into the next tick")
	}
}

func TestRunawayUpdateLoopIsAborted(t *testing.T) {
	var reported error
	rt := New(WithErrorHandler(func(err error, owner any, ctx string) {
		reported = err
	}))
	state := ObjectOf(rt, map[string]any{"n": 0})
	Observe(rt, state, false)

	runs := 0
	runaway := NewWatcher(rt, state, "n", func(newVal, oldVal any) {
		runs++
		// Self-perpetuating write.
		state.Set("n", newVal.(int)+1)
	}, WatchOptions{User: true})

	state.Set("n", 1)
	rt.Tick()

	if !errors.Is(reported, ErrRunawayUpdate) {
		t.Fatalf("expected ErrRunawayUpdate, got %v", reported)
	}
	if runs < maxUpdateCount || runs > maxUpdateCount+2 {
		t.Errorf("runaway loop ran %d times, want about %d", runs, maxUpdateCount)
	}
	if got := rt.Stats().CircularAborts; got != 1 {
		t.Errorf("CircularAborts = %d, want 1", got)
	}

	// The runtime stays usable after an abort.
	runaway.Teardown()
	tame := 0
	NewWatcher(rt, state, "n", func(newVal, oldVal any) { tame++ },
		WatchOptions{User: true})
	state.Set("n", -1)
	rt.Tick()
	if tame != 1 {
		t.Errorf("post-abort watcher ran %d times, want 1", tame)
	}
}

func TestBeforeHookRunsAheadOfEachRun(t *testing.T) {
	rt := New()
	state := ObjectOf(rt, map[string]any{"n": 0})
	Observe(rt, state, false)

	var order []string
	NewWatcher(rt, state, "n", func(newVal, oldVal any) {
		order = append(order, "run")
	}, WatchOptions{User: true, Before: func() {
		order = append(order, "before")
	}})

	state.Set("n", 1)
	rt.Tick()
	state.Set("n", 2)
	rt.Tick()

	want := []string{"before", "run", "before", "run"}
	if len(order) != len(want) {
		t.Fatalf("hook sequence %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("hook sequence %v, want %v", order, want)
		}
	}
}

func TestAfterUpdateFiresForPrimaryInReverseOrder(t *testing.T) {
	var updated []uint64
	rt := New(WithAfterUpdate(func(w *Watcher) {
		updated = append(updated, w.ID())
	}))
	state := ObjectOf(rt, map[string]any{"n": 0})
	Observe(rt, state, false)

	parent := NewWatcher(rt, state, "n", func(newVal, oldVal any) {},
		WatchOptions{Primary: true})
	child := NewWatcher(rt, state, "n", func(newVal, oldVal any) {},
		WatchOptions{Primary: true})
	NewWatcher(rt, state, "n", func(newVal, oldVal any) {},
		WatchOptions{User: true}) // non-primary: no hook

	state.Set("n", 1)
	rt.Tick()

	if len(updated) != 2 || updated[0] != child.ID() || updated[1] != parent.ID() {
		t.Errorf("AfterUpdate order %v, want [%d %d]", updated, child.ID(), parent.ID())
	}
}

func TestOnActivatedDrainsQueueInOrder(t *testing.T) {
	var activated []any
	rt := New(WithOnActivated(func(ctx any) {
		activated = append(activated, ctx)
	}))
	state := ObjectOf(rt, map[string]any{"n": 0})
	Observe(rt, state, false)

	NewWatcher(rt, state, "n", func(newVal, oldVal any) {
		rt.QueueActivated("one")
		rt.QueueActivated("two")
	}, WatchOptions{User: true})

	state.Set("n", 1)
	rt.Tick()

	if len(activated) != 2 || activated[0] != "one" || activated[1] != "two" {
		t.Errorf("activated queue %v, want [one two]", activated)
	}
}

func TestFlushObserverReportsRuns(t *testing.T) {
	var reports []FlushReport
	rt := New(WithFlushObserver(func(r FlushReport) {
		reports = append(reports, r)
	}))
	state := ObjectOf(rt, map[string]any{"n": 0})
	Observe(rt, state, false)

	NewWatcher(rt, state, "n", func(newVal, oldVal any) {}, WatchOptions{User: true})
	NewWatcher(rt, state, "n", func(newVal, oldVal any) {}, WatchOptions{User: true})

	state.Set("n", 1)
	rt.Tick()

	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	r := reports[0]
	if r.Queued != 2 || r.Runs != 2 || r.Aborted {
		t.Errorf("report = %+v, want Queued=2 Runs=2 Aborted=false", r)
	}
}

func TestStatsCountFlushesAndRuns(t *testing.T) {
	rt := New()
	state := ObjectOf(rt, map[string]any{"n": 0})
	Observe(rt, state, false)

	NewWatcher(rt, state, "n", func(newVal, oldVal any) {}, WatchOptions{User: true})

	state.Set("n", 1)
	rt.Tick()
	state.Set("n", 2)
	rt.Tick()

	s := rt.Stats()
	if s.Flushes != 2 {
		t.Errorf("Flushes = %d, want 2", s.Flushes)
	}
	if s.WatcherRuns != 2 {
		t.Errorf("WatcherRuns = %d, want 2", s.WatcherRuns)
	}
	if s.Notifies < 2 {
		t.Errorf("Notifies = %d, want at least 2", s.Notifies)
	}
}
