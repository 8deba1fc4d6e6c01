package audit

import (
	"sync"

	"github.com/CyrilRPG/diploma/internal/core"
)

var _ core.Auditor = (*InMemoryAuditor)(nil)

// InMemoryAuditor is an auditor that stores decision entries in memory.
type InMemoryAuditor struct {
	mu      sync.Mutex
	entries []core.AuditEntry
}

func NewInMemoryAuditor() *InMemoryAuditor {
	return &InMemoryAuditor{
		entries: make([]core.AuditEntry, 0),
	}
}

func (i *InMemoryAuditor) Log(entry core.AuditEntry) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.entries = append(i.entries, entry)
	return nil
}

func (i *InMemoryAuditor) GetRecent(limit int) ([]core.AuditEntry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	return recent(i.entries, limit), nil
}

func (i *InMemoryAuditor) Find(filter func(entry core.AuditEntry) bool, limit int) ([]core.AuditEntry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var matches []core.AuditEntry
	for _, entry := range i.entries {
		if filter(entry) {
			matches = append(matches, entry)
		}
	}
	return recent(matches, limit), nil
}

func (i *InMemoryAuditor) Close() error {
	return nil // nothing to close :)
}

// recent returns the newest entries first, capped at limit.
func recent(entries []core.AuditEntry, limit int) []core.AuditEntry {
	if limit > len(entries) || limit <= 0 {
		limit = len(entries)
	}
	out := make([]core.AuditEntry, 0, limit)
	for idx := len(entries) - 1; idx >= len(entries)-limit; idx-- {
		out = append(out, entries[idx])
	}
	return out
}
