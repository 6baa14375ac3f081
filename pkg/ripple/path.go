package ripple

import "strings"

// parsePath turns a dot-delimited expression like "user.address.city" into
// a getter that walks Objects from the owner root. Returns nil when the
// expression contains anything beyond letters, digits, '_', '$', and '.'.
// A path that walks off the reactive tree reads as nil rather than failing.
func parsePath(path string) func(owner any) any {
	if path == "" {
		return nil
	}
	for _, r := range path {
		if !isPathRune(r) {
			return nil
		}
	}

	segments := strings.Split(path, ".")
	return func(owner any) any {
		cur := owner
		for _, seg := range segments {
			obj, ok := cur.(*Object)
			if !ok {
				return nil
			}
			cur = obj.Get(seg)
		}
		return cur
	}
}

func isPathRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '$', r == '.':
		return true
	}
	return false
}
