package ripple

import "sort"

// Array is a sequence reactive container. Element reads register the
// container's structural Dep, and the seven length/order-mutating
// operations each perform the real mutation, observe newly inserted
// elements, then notify that Dep. Element-level interception does not
// exist, so anything that read the array re-runs on any structural change.
type Array struct {
	rt     *Runtime
	ob     *Observer
	items  []any
	frozen bool
	raw    bool
}

// NewArray creates an Array from items. Not observed until handed to
// Observe or assigned into an observed tree.
func NewArray(rt *Runtime, items ...any) *Array {
	return &Array{rt: rt, items: items}
}

// ArrayOf creates an Array backed by a copy of items.
func ArrayOf(rt *Runtime, items []any) *Array {
	out := make([]any, len(items))
	copy(out, items)
	return &Array{rt: rt, items: out}
}

// Freeze marks the array as not observable.
func (a *Array) Freeze() *Array {
	a.frozen = true
	return a
}

// MarkRaw excludes the array from observation entirely.
func (a *Array) MarkRaw() *Array {
	a.raw = true
	return a
}

// Observed reports whether the array has a reactive envelope.
func (a *Array) Observed() bool {
	return a.ob != nil
}

// Len returns the element count, registering the structural dep.
func (a *Array) Len() int {
	a.depend()
	return len(a.items)
}

// Get returns the element at i, registering the structural dep.
// Out-of-range reads yield nil.
func (a *Array) Get(i int) any {
	a.depend()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Peek returns the element at i without registering any dependency.
func (a *Array) Peek(i int) any {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Slice returns a copy of the elements, registering the structural dep.
func (a *Array) Slice() []any {
	a.depend()
	out := make([]any, len(a.items))
	copy(out, a.items)
	return out
}

// Push appends items to the end.
func (a *Array) Push(items ...any) {
	a.items = append(a.items, items...)
	a.observeInserted(items)
	a.notify()
}

// Pop removes and returns the last element, or nil when empty.
func (a *Array) Pop() any {
	var out any
	if n := len(a.items); n > 0 {
		out = a.items[n-1]
		a.items = a.items[:n-1]
	}
	a.notify()
	return out
}

// Shift removes and returns the first element, or nil when empty.
func (a *Array) Shift() any {
	var out any
	if len(a.items) > 0 {
		out = a.items[0]
		a.items = append(a.items[:0], a.items[1:]...)
	}
	a.notify()
	return out
}

// Unshift inserts items at the front.
func (a *Array) Unshift(items ...any) {
	a.items = append(append(make([]any, 0, len(items)+len(a.items)), items...), a.items...)
	a.observeInserted(items)
	a.notify()
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place, and returns the removed elements. start and deleteCount are
// clamped to the valid range.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	n := len(a.items)
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}

	removed := make([]any, deleteCount)
	copy(removed, a.items[start:start+deleteCount])

	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, a.items[:start]...)
	next = append(next, items...)
	next = append(next, a.items[start+deleteCount:]...)
	a.items = next

	a.observeInserted(items)
	a.notify()
	return removed
}

// Sort sorts the elements in place (stable) with less.
func (a *Array) Sort(less func(x, y any) bool) {
	sort.SliceStable(a.items, func(i, j int) bool {
		return less(a.items[i], a.items[j])
	})
	a.notify()
}

// Reverse reverses the elements in place.
func (a *Array) Reverse() {
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
	a.notify()
}

// Set assigns val at index i, growing the array if i is past the end.
// The assignment runs through Splice so the structural dep fires once.
// Negative indexes are ignored.
func (a *Array) Set(i int, val any) {
	if i < 0 {
		return
	}
	for len(a.items) < i {
		a.items = append(a.items, nil)
	}
	a.Splice(i, 1, val)
}

// Delete removes the element at i. Out-of-range indexes are ignored.
func (a *Array) Delete(i int) {
	if i < 0 || i >= len(a.items) {
		return
	}
	a.Splice(i, 1)
}

func (a *Array) depend() {
	if a.ob != nil {
		a.ob.dep.Depend()
	}
}

func (a *Array) notify() {
	if a.ob != nil {
		a.ob.dep.Notify()
	}
}

func (a *Array) observeInserted(items []any) {
	if a.ob == nil {
		return
	}
	for _, item := range items {
		Observe(a.rt, item, false)
	}
}

// dependArray fans dependency registration out across every element's own
// structural dep, recursing through nested arrays. Needed because element
// reads of a parent array cannot be intercepted per-index the way object
// keys can: whoever read the containing array must observe replacement of
// any element.
func dependArray(a *Array) {
	for _, item := range a.items {
		switch v := item.(type) {
		case *Object:
			if v.ob != nil {
				v.ob.dep.Depend()
			}
		case *Array:
			if v.ob != nil {
				v.ob.dep.Depend()
			}
			dependArray(v)
		}
	}
}
