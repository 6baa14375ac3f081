package ripple

import (
	"math"
	"reflect"
)

// sameValue reports whether old and new count as the same value for change
// detection. Containers compare by identity, scalars by ==, and two NaNs
// count as the same value so that repeated NaN writes stay no-ops.
// Values of uncomparable types never count as the same.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case *Object:
		bv, ok := b.(*Object)
		return ok && av == bv
	case *Array:
		bv, ok := b.(*Array)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(av) && math.IsNaN(bv) {
			return true
		}
		return av == bv
	case float32:
		bv, ok := b.(float32)
		if !ok {
			return false
		}
		if math.IsNaN(float64(av)) && math.IsNaN(float64(bv)) {
			return true
		}
		return av == bv
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

// isContainer reports whether v is a reactive container. Containers can
// mutate internally without reassignment, so watchers always re-fire for
// container values even when the reference is unchanged.
func isContainer(v any) bool {
	switch v.(type) {
	case *Object, *Array:
		return true
	}
	return false
}
