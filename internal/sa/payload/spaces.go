package payload

import "sync"

// spaceRegistry maps the protocol's opaque space ids to the host's
// actual space object pointers, so handlers can retain/release the
// right object on create/destroy (spec.md §4.6.5).
type spaceRegistry struct {
	mu     sync.Mutex
	byID   map[uint64]uint64
	nextID uint64
}

func newSpaceRegistry() *spaceRegistry {
	return &spaceRegistry{byID: make(map[uint64]uint64), nextID: 1}
}

// add registers ptr under a freshly minted space id and returns it.
func (r *spaceRegistry) add(ptr uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.byID[id] = ptr
	return id
}

// pointer returns the object pointer registered for sid.
func (r *spaceRegistry) pointer(sid uint64) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ptr, ok := r.byID[sid]
	return ptr, ok
}

// remove forgets sid, returning the pointer it mapped to.
func (r *spaceRegistry) remove(sid uint64) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ptr, ok := r.byID[sid]
	if ok {
		delete(r.byID, sid)
	}
	return ptr, ok
}
