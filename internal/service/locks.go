package service

import "sync"

// lockTable hands out one mutex per key. Entries are reference-counted
// and removed once the last holder releases, so the table stays bounded
// by the number of concurrently locked keys rather than growing with
// every identity ever seen.
type lockTable struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until the key's mutex is held and returns the release
// function. The release function must be called exactly once.
func (t *lockTable) lock(key string) func() {
	t.mu.Lock()
	if t.entries == nil {
		t.entries = make(map[string]*lockEntry)
	}
	entry, ok := t.entries[key]
	if !ok {
		entry = &lockEntry{}
		t.entries[key] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		t.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(t.entries, key)
		}
		t.mu.Unlock()
	}
}

// size returns the number of keys currently held or contended.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
