package reconcile

import "github.com/tilewm/core/internal/types"

const (
	maxDirtySpaces = 16
	maxPidQueue    = 32
)

// spaceSet is a bounded, deduplicated, insertion-ordered set of dirty
// spaces (spec.md §4.3, capacity 16).
type spaceSet struct {
	order []types.SpaceId
	has   map[types.SpaceId]bool
}

func newSpaceSet() *spaceSet {
	return &spaceSet{has: make(map[types.SpaceId]bool)}
}

// Add marks a space dirty. If already at capacity, the oldest entry is
// dropped to make room (spec.md's bounded-set policy is unspecified
// beyond "bounded"; oldest-drop matches the window table's own policy).
func (s *spaceSet) Add(id types.SpaceId) {
	if s.has[id] {
		return
	}
	if len(s.order) >= maxDirtySpaces {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.has, oldest)
	}
	s.order = append(s.order, id)
	s.has[id] = true
}

// Drain returns every dirty space and clears the set.
func (s *spaceSet) Drain() []types.SpaceId {
	out := s.order
	s.order = nil
	s.has = make(map[types.SpaceId]bool)
	return out
}

func (s *spaceSet) Len() int {
	return len(s.order)
}

// pidQueue is a bounded, deduplicated, insertion-ordered queue of pids
// (spec.md §4.3, capacity 32 per kind).
type pidQueue struct {
	order []int
	has   map[int]bool
}

func newPidQueue() *pidQueue {
	return &pidQueue{has: make(map[int]bool)}
}

func (q *pidQueue) Add(pid int) {
	if q.has[pid] {
		return
	}
	if len(q.order) >= maxPidQueue {
		oldest := q.order[0]
		q.order = q.order[1:]
		delete(q.has, oldest)
	}
	q.order = append(q.order, pid)
	q.has[pid] = true
}

func (q *pidQueue) Drain() []int {
	out := q.order
	q.order = nil
	q.has = make(map[int]bool)
	return out
}

func (q *pidQueue) Len() int {
	return len(q.order)
}
