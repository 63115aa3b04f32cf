package audit

import "github.com/skaut/skautis-gate/internal/core"

var _ core.Auditor = (*NoopAuditor)(nil)

// NoopAuditor discards everything. Used when auditing is disabled.
type NoopAuditor struct{}

func NewNoopAuditor() *NoopAuditor { return &NoopAuditor{} }

func (NoopAuditor) Log(core.AuditEntry) error { return nil }

func (NoopAuditor) Find(func(core.AuditEntry) bool, int) ([]core.AuditEntry, error) {
	return nil, nil
}

func (NoopAuditor) Close() error { return nil }
