package ripple

// Dep is a notification hub. Every reactive field owns one, every observed
// container owns one (its structural Dep), and every lazy watcher owns one
// for its result. Deps hold non-owning references to their subscribers;
// teardown is a plain list removal with no cascading cleanup.
type Dep struct {
	rt *Runtime
	id uint64

	// subs are the watchers subscribed to this dep, in subscription order.
	// A watcher appears at most once; the watcher side enforces that via
	// its per-cycle dep-ID sets, so addSub never has to scan.
	subs []*Watcher
}

func newDep(rt *Runtime) *Dep {
	return &Dep{rt: rt, id: nextID()}
}

// ID returns the unique identifier for this dep.
func (d *Dep) ID() uint64 {
	return d.id
}

// Depend registers this dep with the currently evaluating watcher, if any.
// Outside a tracked evaluation it is a no-op.
func (d *Dep) Depend() {
	if w := d.rt.target(); w != nil {
		w.addDep(d)
	}
}

// Notify tells every subscriber that the watched value changed. The
// subscriber list is snapshotted first so subscribers may unsubscribe
// (or subscribe others) mid-notification without corrupting the walk.
func (d *Dep) Notify() {
	if len(d.subs) == 0 {
		return
	}
	subs := make([]*Watcher, len(d.subs))
	copy(subs, d.subs)

	d.rt.stats.notifies.Add(1)
	for _, sub := range subs {
		sub.update()
	}
}

func (d *Dep) addSub(w *Watcher) {
	d.subs = append(d.subs, w)
}

// removeSub removes a subscriber, preserving the order of the rest.
// Removing an absent watcher is a no-op.
func (d *Dep) removeSub(w *Watcher) {
	for i, sub := range d.subs {
		if sub == w {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}
