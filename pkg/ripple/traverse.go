package ripple

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// traverse forces a read of every container property reachable from val so
// that the active watcher registers on every nested dep. This is what
// makes deep watchers react to changes anywhere inside a structure, not
// just to reassignment of the top-level reference. Observed containers are
// visited once by structural-dep ID, which also breaks reference cycles.
func traverse(val any) {
	seen := mapset.NewThreadUnsafeSet[uint64]()
	traverseVal(val, seen)
}

func traverseVal(val any, seen mapset.Set[uint64]) {
	switch v := val.(type) {
	case *Array:
		if v.ob != nil {
			if seen.Contains(v.ob.dep.id) {
				return
			}
			seen.Add(v.ob.dep.id)
		}
		for i := 0; i < len(v.items); i++ {
			traverseVal(v.Get(i), seen)
		}
	case *Object:
		if v.ob != nil {
			if seen.Contains(v.ob.dep.id) {
				return
			}
			seen.Add(v.ob.dep.id)
		}
		for _, k := range v.Keys() {
			traverseVal(v.Get(k), seen)
		}
	}
}
