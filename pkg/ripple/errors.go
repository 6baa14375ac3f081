package ripple

import (
	"errors"
	"fmt"
)

// ErrRunawayUpdate is reported through the runtime's error handler when a
// watcher keeps re-enqueueing itself within a single flush past the allowed
// threshold. The remainder of that flush is abandoned; already-run watchers
// keep their new values and unprocessed watchers are dropped from the queue
// until a later write notifies them again.
var ErrRunawayUpdate = errors.New("ripple: possible infinite update loop")

// recoveredError converts a recovered panic value into an error for the
// runtime's error handler.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
