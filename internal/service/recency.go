package service

import "time"

// DefaultRecencyTTL is how long a freshly created document keeps its
// "just added" highlight. Ten seconds; membership is checked against the
// clock rather than evicted by timers, so pending highlights are trivially
// cancellable and testable.
const DefaultRecencyTTL = 10 * time.Second

// RecencySet is a deadline-bounded membership set over document identifiers.
// An identifier is a member until its deadline elapses. Callers guard
// concurrent access.
type RecencySet struct {
	now       func() time.Time
	deadlines map[string]time.Time
}

// NewRecencySet builds a recency set reading time from now; a nil now uses
// the wall clock.
func NewRecencySet(now func() time.Time) *RecencySet {
	if now == nil {
		now = time.Now
	}
	return &RecencySet{now: now, deadlines: make(map[string]time.Time)}
}

// Mark inserts id with a deadline of now+ttl, refreshing the deadline when
// id is already present.
func (r *RecencySet) Mark(id string, ttl time.Duration) {
	if id == "" {
		return
	}
	if ttl <= 0 {
		ttl = DefaultRecencyTTL
	}
	r.deadlines[id] = r.now().Add(ttl)
}

// Unmark removes id immediately.
func (r *RecencySet) Unmark(id string) {
	delete(r.deadlines, id)
}

// Clear removes every entry, cancelling all pending expiries.
func (r *RecencySet) Clear() {
	r.deadlines = make(map[string]time.Time)
}

// IsMarked reports whether id is still within its highlight window. Expired
// entries are dropped on sight.
func (r *RecencySet) IsMarked(id string) bool {
	deadline, ok := r.deadlines[id]
	if !ok {
		return false
	}
	if r.now().After(deadline) {
		delete(r.deadlines, id)
		return false
	}
	return true
}
