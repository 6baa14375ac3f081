// Package ripple is a reactive dependency-tracking and change-propagation
// engine. It turns plain data into observable state, records which
// computations read which pieces of state, and re-runs exactly the affected
// computations, exactly once each, in a deterministic order, whenever state
// changes.
//
// The building blocks compose bottom-up:
//
//   - Dep: a notification hub owned by a single reactive field or container.
//     Reading a field during a tracked evaluation registers the active
//     Watcher with the field's Dep; writing notifies all registered Watchers.
//   - Object and Array: reactive containers. Every field of an observed
//     Object is a reactive cell backed by its own Dep; an observed Array
//     intercepts its length/order-mutating operations and notifies a
//     structural Dep.
//   - Watcher: a unit of re-runnable work with a getter, a cached value, and
//     incrementally-diffed dependency sets. One structure covers eager
//     render-like bindings, lazy memoized computations, and user watches
//     with a visible old/new callback.
//   - Scheduler: a deduplicating, identity-ordered, batched run queue for
//     Watchers, with re-entrancy and runaway-loop protection.
//
// All graph mutation is synchronous on the calling goroutine. A Runtime and
// everything created from it is owned by exactly one goroutine; there is no
// internal locking. The only deferred step is the scheduler flush, which runs
// when the owning goroutine yields control via Runtime.Tick. Stats counters
// are atomic and may be read from other goroutines (see pkg/inspect).
//
// Example:
//
//	rt := ripple.New()
//	state := ripple.ObjectOf(rt, map[string]any{"count": 0})
//	ripple.Observe(rt, state, true)
//
//	w := ripple.NewWatcher(rt, state, "count", func(newVal, oldVal any) {
//	    fmt.Println("count changed:", oldVal, "->", newVal)
//	}, ripple.WatchOptions{User: true})
//	defer w.Teardown()
//
//	state.Set("count", 1)
//	rt.Tick() // flush: callback fires once
package ripple
