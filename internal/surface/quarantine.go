package surface

import (
	"errors"
	"fmt"
)

// Quarantine holds handles removed from the Registry until the next run-loop
// iteration, so a dispatch already in flight never sees a freed object.
type Quarantine struct {
	pending []Handle
}

// Push queues h for disposal on the next Drain.
func (q *Quarantine) Push(h Handle) {
	if h == nil {
		return
	}
	q.pending = append(q.pending, h)
}

// Len returns the number of handles awaiting disposal.
func (q *Quarantine) Len() int {
	return len(q.pending)
}

// Contains reports whether a handle for id is awaiting disposal.
func (q *Quarantine) Contains(id ID) bool {
	for _, h := range q.pending {
		if h.ID() == id {
			return true
		}
	}
	return false
}

// Drain destroys every queued handle in FIFO order and empties the queue.
// All handles are attempted; failures are joined.
func (q *Quarantine) Drain() error {
	if len(q.pending) == 0 {
		return nil
	}
	pending := q.pending
	q.pending = nil

	var errs []error
	for _, h := range pending {
		if err := h.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("destroy surface %d: %w", h.ID(), err))
		}
	}
	return errors.Join(errs...)
}
