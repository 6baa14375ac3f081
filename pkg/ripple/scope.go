package ripple

// Scope collects watchers that share a lifetime, typically everything
// created for one component instance, and tears them all down at once.
type Scope struct {
	rt       *Runtime
	id       uint64
	watchers []*Watcher
	disposed bool
}

// NewScope creates an empty scope.
func NewScope(rt *Runtime) *Scope {
	return &Scope{rt: rt, id: nextID()}
}

func (s *Scope) attach(w *Watcher) {
	if s.disposed {
		return
	}
	s.watchers = append(s.watchers, w)
}

func (s *Scope) detach(w *Watcher) {
	for i, cur := range s.watchers {
		if cur == w {
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			return
		}
	}
}

// Disposed reports whether the scope has been disposed.
func (s *Scope) Disposed() bool {
	return s.disposed
}

// Dispose tears down every attached watcher, newest first, and marks the
// scope dead. Watchers created under a disposed scope are not tracked.
// Idempotent.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	watchers := make([]*Watcher, len(s.watchers))
	copy(watchers, s.watchers)
	s.watchers = nil

	for i := len(watchers) - 1; i >= 0; i-- {
		watchers[i].Teardown()
	}
}
