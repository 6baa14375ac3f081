package ripple

import "log/slog"

// Runtime holds the process-wide state of one reactive graph: the
// active-watcher stack, the scheduler, the observation toggle, and the
// hooks collaborators plug in. Everything reachable from a Runtime is owned
// by a single goroutine; only Stats may be read concurrently.
type Runtime struct {
	// targets is the stack of currently evaluating watchers, topped by the
	// watcher whose getter is presently running. A nil entry suspends
	// dependency recording without tracking anything.
	targets []*Watcher

	// shouldObserve gates Observe. While false, Observe is a no-op; used
	// transiently when constructing default values that will be merged
	// into an already-reactive tree.
	shouldObserve bool

	sched *scheduler

	// ticks is the next-tick callback queue, flushed by Tick. The first
	// scheduler enqueue of a batch registers exactly one flush callback
	// here, so many synchronous writes coalesce into one flush.
	ticks []func()

	// activated collects contexts queued by collaborators during a flush;
	// the scheduler drains them (in order) after the main pass.
	activated []any

	errorHandler  func(err error, owner any, context string)
	warnHandler   func(msg string, owner any)
	afterUpdate   func(w *Watcher)
	onActivated   func(ctx any)
	flushObserver func(r FlushReport)

	stats runtimeStats
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithErrorHandler replaces the default error sink. The handler receives
// failures from user getters and callbacks, data factories, and runaway
// update loops; it must not panic.
func WithErrorHandler(fn func(err error, owner any, context string)) Option {
	return func(rt *Runtime) { rt.errorHandler = fn }
}

// WithWarnHandler replaces the default warning sink for non-fatal
// diagnostics (bad watcher paths, discouraged root-state mutation).
func WithWarnHandler(fn func(msg string, owner any)) Option {
	return func(rt *Runtime) { rt.warnHandler = fn }
}

// WithAfterUpdate installs a hook invoked after a flush for each primary
// watcher that ran, in reverse run order (children before parents).
func WithAfterUpdate(fn func(w *Watcher)) Option {
	return func(rt *Runtime) { rt.afterUpdate = fn }
}

// WithOnActivated installs a hook invoked after a flush for each context
// queued via QueueActivated, in queue order.
func WithOnActivated(fn func(ctx any)) Option {
	return func(rt *Runtime) { rt.onActivated = fn }
}

// WithFlushObserver installs a hook invoked at the end of every flush with
// a summary of what ran. Used by devtools; must not mutate reactive state.
func WithFlushObserver(fn func(r FlushReport)) Option {
	return func(rt *Runtime) { rt.flushObserver = fn }
}

// New creates a Runtime. The zero configuration logs errors and warnings
// through log/slog.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		shouldObserve: true,
		errorHandler: func(err error, owner any, context string) {
			slog.Error("ripple: unhandled error", "context", context, "err", err)
		},
		warnHandler: func(msg string, owner any) {
			slog.Warn("ripple: " + msg)
		},
	}
	rt.sched = newScheduler(rt)
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// target returns the currently evaluating watcher, or nil.
func (rt *Runtime) target() *Watcher {
	if len(rt.targets) == 0 {
		return nil
	}
	return rt.targets[len(rt.targets)-1]
}

// PushTarget makes w the active watcher for dependency recording. Passing
// nil suspends recording entirely. Every PushTarget must be paired with a
// PopTarget; watcher evaluation does this internally with panic-safe defers.
func (rt *Runtime) PushTarget(w *Watcher) {
	rt.targets = append(rt.targets, w)
}

// PopTarget restores the previously active watcher.
func (rt *Runtime) PopTarget() {
	if len(rt.targets) == 0 {
		return
	}
	rt.targets = rt.targets[:len(rt.targets)-1]
}

// NextTick enqueues fn to run on the next Tick, after any flush already
// scheduled for that tick if it was scheduled first.
func (rt *Runtime) NextTick(fn func()) {
	rt.ticks = append(rt.ticks, fn)
}

// Tick is the cooperative yield point: it runs all callbacks queued so far,
// including the scheduler flush. Callbacks queued while ticking (for
// example by writes inside watcher callbacks) run on the following Tick.
func (rt *Runtime) Tick() {
	if len(rt.ticks) == 0 {
		return
	}
	pending := rt.ticks
	rt.ticks = nil
	for _, fn := range pending {
		fn()
	}
}

// HasPendingWork reports whether a Tick would run anything.
func (rt *Runtime) HasPendingWork() bool {
	return len(rt.ticks) > 0
}

// WithoutObserving runs fn with observation suspended: any Observe call
// made inside is a no-op.
func (rt *Runtime) WithoutObserving(fn func()) {
	prev := rt.shouldObserve
	rt.shouldObserve = false
	defer func() { rt.shouldObserve = prev }()
	fn()
}

// InitData builds initial state from a collaborator-supplied factory with
// dependency recording suspended, so reads inside the factory do not leak
// subscriptions into whatever watcher is currently evaluating. A panicking
// factory is reported through the error handler and replaced by an empty
// Object so construction can proceed.
func (rt *Runtime) InitData(owner any, factory func() *Object) (obj *Object) {
	rt.PushTarget(nil)
	defer rt.PopTarget()

	defer func() {
		if r := recover(); r != nil {
			rt.errorHandler(recoveredError(r), owner, "data()")
			obj = NewObject(rt)
		}
	}()
	obj = factory()
	if obj == nil {
		obj = NewObject(rt)
	}
	return obj
}

// QueueActivated records a collaborator context to be handed to the
// OnActivated hook after the current flush completes.
func (rt *Runtime) QueueActivated(ctx any) {
	rt.activated = append(rt.activated, ctx)
}

func (rt *Runtime) warn(msg string, owner any) {
	if rt.warnHandler != nil {
		rt.warnHandler(msg, owner)
	}
}

func (rt *Runtime) reportError(err error, owner any, context string) {
	if rt.errorHandler != nil {
		rt.errorHandler(err, owner, context)
	}
}
