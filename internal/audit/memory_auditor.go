package audit

import (
	"sync"

	"github.com/skaut/skautis-gate/internal/core"
)

var _ core.Auditor = (*InMemoryAuditor)(nil)

// InMemoryAuditor keeps decision entries in process memory. It is the
// default auditor and the one the tests use.
type InMemoryAuditor struct {
	mu      sync.Mutex
	entries []core.AuditEntry
}

func NewInMemoryAuditor() *InMemoryAuditor {
	return &InMemoryAuditor{}
}

func (a *InMemoryAuditor) Log(entry core.AuditEntry) error {
	a.mu.Lock()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()
	return nil
}

func (a *InMemoryAuditor) Find(filter func(core.AuditEntry) bool, limit int) ([]core.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lastMatching(a.entries, filter, limit), nil
}

func (a *InMemoryAuditor) Close() error {
	return nil
}

// lastMatching filters entries and keeps the most recent limit matches,
// preserving chronological order. limit <= 0 keeps everything.
func lastMatching(entries []core.AuditEntry, filter func(core.AuditEntry) bool, limit int) []core.AuditEntry {
	var matches []core.AuditEntry
	for _, entry := range entries {
		if filter(entry) {
			matches = append(matches, entry)
		}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}
	return matches
}
