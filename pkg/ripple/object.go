package ripple

import "sort"

// Object is a map-like reactive container. Each key is a reactive cell
// backed by its own Dep; reads during a tracked evaluation register the
// active watcher, writes notify it. Objects start plain; Observe installs
// the cells (and recursively observes nested containers).
type Object struct {
	rt     *Runtime
	ob     *Observer
	fields map[string]*field
	keys   []string
	frozen bool
	raw    bool
}

// field is one reactive cell: the statically-typed stand-in for an
// intercepted property accessor pair.
type field struct {
	key     string
	dep     *Dep // nil while the field is plain (unobserved or locked)
	value   any
	childOb *Observer
	shallow bool
	locked  bool

	// onExternalWrite is an optional diagnostic callback fired before an
	// assignment goes through. It never replaces the real setter.
	onExternalWrite func(key string, oldVal, newVal any)
}

// NewObject creates an empty Object. It is not observed until handed to
// Observe (directly or by being assigned into an observed tree).
func NewObject(rt *Runtime) *Object {
	return &Object{rt: rt, fields: make(map[string]*field)}
}

// ObjectOf creates an Object pre-populated from m. Keys are installed in
// sorted order so that iteration and flush behavior is deterministic.
func ObjectOf(rt *Runtime, m map[string]any) *Object {
	o := NewObject(rt)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.putPlain(k, m[k])
	}
	return o
}

// Freeze marks the object as not observable. Only meaningful before
// observation; Observe returns nil for frozen objects.
func (o *Object) Freeze() *Object {
	o.frozen = true
	return o
}

// MarkRaw excludes the object from observation entirely, the escape hatch
// for values that must never become reactive.
func (o *Object) MarkRaw() *Object {
	o.raw = true
	return o
}

// Observed reports whether the object has a reactive envelope.
func (o *Object) Observed() bool {
	return o.ob != nil
}

// walk installs a reactive cell for every existing key. Locked fields are
// silently skipped: they cannot be made reactive.
func (o *Object) walk() {
	for _, k := range o.keys {
		f := o.fields[k]
		if f.locked {
			continue
		}
		o.define(f)
	}
}

func (o *Object) define(f *field) {
	if f.dep == nil {
		f.dep = newDep(o.rt)
	}
	if !f.shallow {
		f.childOb = Observe(o.rt, f.value, false)
	}
}

func (o *Object) putPlain(key string, val any) {
	o.fields[key] = &field{key: key, value: val}
	o.keys = append(o.keys, key)
}

// FieldOption configures a reactive cell installed via DefineField.
type FieldOption func(*field)

// Shallow keeps the cell from observing its value: reassignment is tracked,
// mutation inside the assigned container is not.
func Shallow() FieldOption {
	return func(f *field) { f.shallow = true }
}

// OnExternalWrite installs a diagnostic callback invoked on every
// assignment to the cell, in addition to the normal setter behavior.
func OnExternalWrite(fn func(key string, oldVal, newVal any)) FieldOption {
	return func(f *field) { f.onExternalWrite = fn }
}

// DefineField installs (or reconfigures) a reactive cell for key with the
// given initial value. A locked field is left untouched. This is the
// collaborator entry point for turning declared component fields into
// reactive state.
func DefineField(o *Object, key string, val any, opts ...FieldOption) {
	f := o.fields[key]
	if f == nil {
		f = &field{key: key, value: val}
		o.fields[key] = f
		o.keys = append(o.keys, key)
	} else {
		if f.locked {
			return
		}
		f.value = val
	}
	for _, opt := range opts {
		opt(f)
	}
	o.define(f)
}

// LockField marks an existing key as permanently plain: walk and
// DefineField skip it, and assignments bypass change notification. The
// analog of a non-configurable property.
func (o *Object) LockField(key string) {
	if f := o.fields[key]; f != nil && f.dep == nil {
		f.locked = true
	}
}

// Get returns the value for key, registering the active watcher with the
// field's dep, the child container's structural dep, and (for array
// values) every nested element's structural dep, so that element
// replacement anywhere below is observed by whoever read this field.
// Missing keys read as nil.
func (o *Object) Get(key string) any {
	f := o.fields[key]
	if f == nil {
		return nil
	}
	if f.dep != nil {
		f.dep.Depend()
		if f.childOb != nil {
			f.childOb.dep.Depend()
			if arr, ok := f.value.(*Array); ok {
				dependArray(arr)
			}
		}
	}
	return f.value
}

// GetOK is Get plus a key-presence report.
func (o *Object) GetOK(key string) (any, bool) {
	if _, ok := o.fields[key]; !ok {
		return nil, false
	}
	return o.Get(key), true
}

// Peek returns the value for key without registering any dependency.
func (o *Object) Peek(key string) any {
	if f := o.fields[key]; f != nil {
		return f.value
	}
	return nil
}

// Set assigns val to key. For an existing reactive field this is the
// setter path: identical values (NaN counts as identical to itself) are
// no-ops, otherwise the value is stored, re-observed, and the field's dep
// notified. For a new key on an observed object a fresh reactive cell is
// installed and the structural dep notified; on an unobserved object the
// assignment is silent. Adding keys to root state draws a warning and does
// nothing.
func (o *Object) Set(key string, val any) {
	if f := o.fields[key]; f != nil {
		o.setField(f, val)
		return
	}
	if o.ob != nil && o.ob.vmCount > 0 {
		o.rt.warn(`avoid adding reactive fields to root state at runtime: declare "`+key+`" upfront instead`, o)
		return
	}
	if o.ob == nil {
		o.putPlain(key, val)
		return
	}
	DefineField(o, key, val)
	o.ob.dep.Notify()
}

func (o *Object) setField(f *field, val any) {
	if f.dep == nil {
		// Plain or locked field: direct storage, no propagation.
		f.value = val
		return
	}
	if sameValue(f.value, val) {
		return
	}
	if f.onExternalWrite != nil {
		f.onExternalWrite(f.key, f.value, val)
	}
	f.value = val
	if !f.shallow {
		f.childOb = Observe(o.rt, val, false)
	}
	f.dep.Notify()
}

// Delete removes key. Removing from an observed object notifies the
// structural dep; removing an absent key, or any key from unobserved
// objects, is silent. Deleting from root state draws a warning and does
// nothing.
func (o *Object) Delete(key string) {
	if o.ob != nil && o.ob.vmCount > 0 {
		o.rt.warn(`avoid deleting fields from root state at runtime: "`+key+`"`, o)
		return
	}
	if _, ok := o.fields[key]; !ok {
		return
	}
	delete(o.fields, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	if o.ob != nil {
		o.ob.dep.Notify()
	}
}

// Has reports key presence, registering the structural dep so watchers
// re-run when keys come and go.
func (o *Object) Has(key string) bool {
	if o.ob != nil {
		o.ob.dep.Depend()
	}
	_, ok := o.fields[key]
	return ok
}

// Keys returns the keys in installation order, registering the
// structural dep.
func (o *Object) Keys() []string {
	if o.ob != nil {
		o.ob.dep.Depend()
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys, registering the structural dep.
func (o *Object) Len() int {
	if o.ob != nil {
		o.ob.dep.Depend()
	}
	return len(o.keys)
}
