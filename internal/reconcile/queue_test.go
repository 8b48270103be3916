package reconcile

import (
	"testing"

	"github.com/tilewm/core/internal/types"
)

func TestSpaceSetDeduplicates(t *testing.T) {
	s := newSpaceSet()
	s.Add(1)
	s.Add(1)
	s.Add(2)

	if s.Len() != 2 {
		t.Errorf("expected 2 deduplicated entries, got %d", s.Len())
	}
}

func TestSpaceSetBoundedDropsOldest(t *testing.T) {
	s := newSpaceSet()
	for i := 0; i < maxDirtySpaces+5; i++ {
		s.Add(types.SpaceId(i + 1))
	}
	if s.Len() != maxDirtySpaces {
		t.Errorf("expected set bounded at %d, got %d", maxDirtySpaces, s.Len())
	}

	drained := s.Drain()
	if drained[0] != types.SpaceId(6) {
		t.Errorf("expected oldest entries dropped, first remaining = %v, want 6", drained[0])
	}
}

func TestSpaceSetDrainClears(t *testing.T) {
	s := newSpaceSet()
	s.Add(1)
	s.Drain()
	if s.Len() != 0 {
		t.Error("expected Drain to clear the set")
	}
}

func TestPidQueueDeduplicatesAndBounds(t *testing.T) {
	q := newPidQueue()
	for i := 0; i < maxPidQueue+3; i++ {
		q.Add(i + 1)
	}
	q.Add(maxPidQueue) // already present, no-op

	if q.Len() != maxPidQueue {
		t.Errorf("expected queue bounded at %d, got %d", maxPidQueue, q.Len())
	}
}
