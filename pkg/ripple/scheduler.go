package ripple

import (
	"fmt"
	"sort"
)

// maxUpdateCount is how many times a single watcher may be re-enqueued
// within one flush before the scheduler treats it as a runaway cycle.
const maxUpdateCount = 100

// scheduler is the deduplicating, identity-ordered, batched run queue for
// watchers. One per runtime; all state is reset after every flush.
type scheduler struct {
	rt *Runtime

	queue []*Watcher

	// has marks watcher IDs present in the queue for the current cycle.
	has map[uint64]bool

	// circular counts per-watcher re-entries within one flush.
	circular map[uint64]int

	// waiting is set from the first enqueue of a batch until the flush
	// it scheduled has run: many writes, one flush.
	waiting bool

	// flushing flips enqueue from append mode to sorted-splice mode.
	flushing bool

	// index is the live cursor; the queue may grow behind it mid-flush.
	index int
}

func newScheduler(rt *Runtime) *scheduler {
	return &scheduler{
		rt:       rt,
		has:      make(map[uint64]bool),
		circular: make(map[uint64]int),
	}
}

// enqueue adds a watcher to the pending queue, deduplicating by ID within
// the cycle. Outside a flush it appends and lets flush sort; during a
// flush it splices the watcher into the unprocessed remainder at its
// ascending-ID position, never before the cursor, so work triggered by a
// running watcher still executes within the same flush in order.
func (s *scheduler) enqueue(w *Watcher) {
	if s.has[w.id] {
		return
	}
	s.has[w.id] = true

	if !s.flushing {
		s.queue = append(s.queue, w)
	} else {
		i := len(s.queue) - 1
		for i > s.index && s.queue[i].id > w.id {
			i--
		}
		s.queue = append(s.queue, nil)
		copy(s.queue[i+2:], s.queue[i+1:])
		s.queue[i+1] = w
	}

	if !s.waiting {
		s.waiting = true
		s.rt.NextTick(s.flush)
	}
}

// flush runs the whole queue in ascending watcher-ID order: parents before
// children (parents are created first) and user watches before the render
// binding of the same owner. A watcher that keeps re-enqueueing itself
// past maxUpdateCount aborts the rest of the queue with a diagnostic.
// Scheduler state is fully reset before any post-phase hook runs, so a
// hook that mutates state starts a clean cycle.
func (s *scheduler) flush() {
	s.flushing = true
	sort.Slice(s.queue, func(i, j int) bool {
		return s.queue[i].id < s.queue[j].id
	})

	runs := 0
	aborted := false
	for s.index = 0; s.index < len(s.queue); s.index++ {
		w := s.queue[s.index]
		if w.before != nil && w.active {
			w.before()
		}
		delete(s.has, w.id)
		w.run()
		runs++
		s.rt.stats.watcherRuns.Add(1)

		// Present again right after running means it re-enqueued itself.
		if s.has[w.id] {
			s.circular[w.id]++
			if s.circular[w.id] > maxUpdateCount {
				aborted = true
				s.rt.stats.circularAborts.Add(1)
				desc := "in a render binding"
				if w.user {
					desc = `in watcher with expression "` + w.expression + `"`
				}
				s.rt.reportError(fmt.Errorf("%w %s", ErrRunawayUpdate, desc), w.owner, "scheduler flush")
				break
			}
		}
	}

	queued := len(s.queue)
	updated := make([]*Watcher, len(s.queue))
	copy(updated, s.queue)
	activated := s.rt.activated
	s.rt.activated = nil

	s.reset()
	s.rt.stats.flushes.Add(1)

	if s.rt.onActivated != nil {
		for _, ctx := range activated {
			s.rt.onActivated(ctx)
		}
	}
	if s.rt.afterUpdate != nil {
		for i := len(updated) - 1; i >= 0; i-- {
			if w := updated[i]; w.primary && w.active {
				s.rt.afterUpdate(w)
			}
		}
	}
	if s.rt.flushObserver != nil {
		s.rt.flushObserver(FlushReport{Queued: queued, Runs: runs, Aborted: aborted})
	}
}

func (s *scheduler) reset() {
	s.queue = s.queue[:0]
	s.index = 0
	s.has = make(map[uint64]bool)
	s.circular = make(map[uint64]int)
	s.waiting = false
	s.flushing = false
}
