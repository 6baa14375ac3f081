package ripple

// Observer is the reactive envelope attached to a container. It owns the
// container's structural Dep, which fires on key addition/removal and on
// sequence length/order changes, as opposed to reassignment of an existing
// field (those go through the field's own Dep).
type Observer struct {
	rt  *Runtime
	dep *Dep

	// vmCount counts how many root-level bindings claim this container as
	// their top-level state. Purely a diagnostic gate: adding or removing
	// fields on root state at runtime draws a warning instead of working.
	vmCount int
}

// Dep returns the container's structural dep.
func (ob *Observer) Dep() *Dep {
	return ob.dep
}

// Observe attaches reactivity to a container and returns its Observer.
// It is idempotent: an already-observed container returns its existing
// Observer. It returns nil when value is not a container, the container is
// frozen or marked raw, or observation is currently suspended on the
// runtime. asRootData marks the container as someone's top-level state.
func Observe(rt *Runtime, value any, asRootData bool) *Observer {
	var ob *Observer
	switch v := value.(type) {
	case *Object:
		switch {
		case v.ob != nil:
			ob = v.ob
		case rt.shouldObserve && !v.frozen && !v.raw:
			ob = &Observer{rt: rt, dep: newDep(rt)}
			v.ob = ob
			v.walk()
		}
	case *Array:
		switch {
		case v.ob != nil:
			ob = v.ob
		case rt.shouldObserve && !v.frozen && !v.raw:
			ob = &Observer{rt: rt, dep: newDep(rt)}
			v.ob = ob
			for _, item := range v.items {
				Observe(rt, item, false)
			}
		}
	default:
		return nil
	}

	if ob != nil && asRootData {
		ob.vmCount++
	}
	return ob
}
