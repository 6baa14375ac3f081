package ripple

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// WatchOptions selects a watcher's flavor. The zero value is an eager,
// scheduler-batched watcher, the render-like default.
type WatchOptions struct {
	// Deep re-runs and re-subscribes through every container reachable
	// from the getter's result, so mutation anywhere inside triggers the
	// watcher even when the top-level reference never changes.
	Deep bool

	// User marks an externally registered watch: getter and callback
	// panics are reported through the runtime's error handler instead of
	// propagating, and runaway-loop diagnostics cite the expression.
	User bool

	// Lazy makes the watcher a memoized computation: it evaluates on
	// first Value call instead of at construction, caches until a
	// dependency invalidates it, and owns a result dep so other watchers
	// can depend on its result rather than its inputs.
	Lazy bool

	// Sync bypasses the scheduler: the watcher re-runs inline with the
	// write that invalidated it.
	Sync bool

	// Primary marks the owner's render-like binding; the runtime's
	// AfterUpdate hook fires for primary watchers after each flush.
	Primary bool

	// Before runs just before each scheduled re-run within a flush.
	Before func()

	// Scope attaches the watcher to a Scope for collective teardown.
	Scope *Scope
}

// Watcher is a unit of re-runnable work: a getter, a cached value, and two
// generations of dependency sets diffed incrementally after every
// evaluation. One structure serves render-like bindings, lazy computed
// values, and user watches; the flags decide how it reacts to change.
type Watcher struct {
	rt         *Runtime
	id         uint64
	owner      any
	expression string
	getter     func(owner any) any
	cb         func(newVal, oldVal any)

	value  any
	active bool
	dirty  bool // lazy only: cached value is stale

	deep    bool
	user    bool
	lazy    bool
	sync    bool
	primary bool

	deps      []*Dep
	newDeps   []*Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]

	before func()

	// resultDep lets other watchers depend on this lazy watcher's result.
	// Nil for non-lazy watchers.
	resultDep *Dep

	scope *Scope
}

// NewWatcher constructs a watcher for owner. exprOrFn is either a getter
// func(owner any) any or a dot-delimited path resolved against owner; a
// path that cannot be parsed yields a nil-producing getter plus a one-time
// diagnostic. Non-lazy watchers evaluate immediately; lazy watchers start
// dirty and evaluate on first Value call.
func NewWatcher(rt *Runtime, owner any, exprOrFn any, cb func(newVal, oldVal any), opts WatchOptions) *Watcher {
	w := &Watcher{
		rt:        rt,
		id:        nextID(),
		owner:     owner,
		cb:        cb,
		active:    true,
		dirty:     opts.Lazy,
		deep:      opts.Deep,
		user:      opts.User,
		lazy:      opts.Lazy,
		sync:      opts.Sync,
		primary:   opts.Primary,
		before:    opts.Before,
		depIDs:    mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs: mapset.NewThreadUnsafeSet[uint64](),
		scope:     opts.Scope,
	}

	switch g := exprOrFn.(type) {
	case func(any) any:
		w.getter = g
		w.expression = "<getter>"
	case string:
		w.expression = g
		w.getter = parsePath(g)
		if w.getter == nil {
			w.getter = func(any) any { return nil }
			rt.warn(`failed to watch path "`+g+`": only dot-delimited paths are supported; use a getter function for full control`, owner)
		}
	default:
		w.getter = func(any) any { return nil }
		w.expression = "<invalid>"
		rt.warn("watcher getter must be a func(any) any or a dot-delimited path string", owner)
	}

	if w.scope != nil {
		w.scope.attach(w)
	}

	if opts.Lazy {
		w.resultDep = newDep(rt)
	} else {
		w.value = w.get()
	}
	return w
}

// ID returns the watcher's creation-ordered identity.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Expression returns the watched path or a placeholder for getter
// functions; used in diagnostics.
func (w *Watcher) Expression() string {
	return w.expression
}

// Active reports whether the watcher has not been torn down.
func (w *Watcher) Active() bool {
	return w.active
}

// get evaluates the getter with this watcher as the active target, then
// reconciles the dependency generations. The pop and reconcile run even
// when the getter panics. User getter panics are reported and swallowed;
// anything else propagates, since an internal computation failing is a
// programming defect the surrounding system must not mask.
func (w *Watcher) get() any {
	w.rt.PushTarget(w)
	defer func() {
		w.rt.PopTarget()
		w.cleanupDeps()
	}()

	var value any
	if w.user {
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.rt.reportError(recoveredError(r), w.owner, `getter for watcher "`+w.expression+`"`)
				}
			}()
			value = w.getter(w.owner)
		}()
	} else {
		value = w.getter(w.owner)
	}

	if w.deep {
		traverse(value)
	}
	return value
}

// addDep registers a dep for the current evaluation cycle. Idempotent
// within the cycle; the physical subscribe happens only if the dep was not
// already held last cycle, which avoids subscribe/unsubscribe churn.
func (w *Watcher) addDep(d *Dep) {
	if w.newDepIDs.Contains(d.id) {
		return
	}
	w.newDepIDs.Add(d.id)
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(d.id) {
		d.addSub(w)
	}
}

// cleanupDeps unsubscribes from deps held last cycle but not read this
// cycle, then swaps the generations and clears the new one for reuse.
func (w *Watcher) cleanupDeps() {
	for _, d := range w.deps {
		if !w.newDepIDs.Contains(d.id) {
			d.removeSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()
	w.deps, w.newDeps = w.newDeps, w.deps[:0]
}

// update is the reaction to a dep notification. Lazy watchers with no
// result subscribers just go dirty; with subscribers they recompute in
// place and propagate only a real change. Sync watchers run inline.
// Everything else is handed to the scheduler.
func (w *Watcher) update() {
	switch {
	case w.lazy:
		if len(w.resultDep.subs) == 0 {
			w.dirty = true
			return
		}
		w.refreshResult()
	case w.sync:
		w.run()
	default:
		w.rt.sched.enqueue(w)
	}
}

// refreshResult recomputes a lazy watcher eagerly and notifies its result
// dep only when the value actually changed.
func (w *Watcher) refreshResult() {
	old := w.value
	w.value = w.get()
	w.dirty = false
	if !sameValue(w.value, old) {
		w.resultDep.Notify()
	}
}

// run is the scheduler's execution entry point. Torn-down watchers are
// skipped. The callback fires when the value changed, and always for deep
// watchers and container values, whose internals can mutate without the
// reference changing.
func (w *Watcher) run() {
	if !w.active {
		return
	}
	value := w.get()
	if !sameValue(value, w.value) || isContainer(value) || w.deep {
		old := w.value
		w.value = value
		w.invokeCb(value, old)
	}
}

func (w *Watcher) invokeCb(newVal, oldVal any) {
	if w.cb == nil {
		return
	}
	if w.user {
		defer func() {
			if r := recover(); r != nil {
				w.rt.reportError(recoveredError(r), w.owner, `callback for watcher "`+w.expression+`"`)
			}
		}()
	}
	w.cb(newVal, oldVal)
}

// Value returns a lazy watcher's (re)computed result and registers the
// active watcher on the result dep, so consumers depend on the result
// rather than the inputs. For non-lazy watchers it returns the cached
// value from the last run.
func (w *Watcher) Value() any {
	if w.lazy && w.dirty {
		w.value = w.get()
		w.dirty = false
	}
	if w.resultDep != nil {
		w.resultDep.Depend()
	}
	return w.value
}

// Depend registers the active watcher on this watcher's result dep.
// No-op for non-lazy watchers.
func (w *Watcher) Depend() {
	if w.resultDep != nil {
		w.resultDep.Depend()
	}
}

// Teardown removes the watcher from every dep it subscribes to and marks
// it inactive. A teardown racing a pending scheduled run is absorbed by
// run's active check. Idempotent.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	w.active = false
	for _, d := range w.deps {
		d.removeSub(w)
	}
	w.deps = nil
	w.newDeps = nil
	w.depIDs.Clear()
	w.newDepIDs.Clear()
	if w.scope != nil {
		w.scope.detach(w)
		w.scope = nil
	}
}
