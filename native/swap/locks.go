package swap

import "sync"

// lockTable hands out per-order mutexes so that at most one placer, completer
// or canceller acts on a given order id at a time, while operations on
// unrelated ids proceed in parallel. Entries are reference counted and removed
// once the last holder releases.
type lockTable struct {
	mu      sync.Mutex
	entries map[[32]byte]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[[32]byte]*lockEntry)}
}

// lock acquires the exclusive lock for the order id and returns the release
// function.
func (t *lockTable) lock(id [32]byte) func() {
	t.mu.Lock()
	entry, ok := t.entries[id]
	if !ok {
		entry = &lockEntry{}
		t.entries[id] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		t.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(t.entries, id)
		}
		t.mu.Unlock()
	}
}
