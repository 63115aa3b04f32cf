package audit

import (
	"fmt"

	"github.com/skaut/skautis-gate/internal/buildinfo"
	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
)

// CreateUserAgent builds the User-Agent the bridge client sends so
// remote calls can be traced back to a gate decision.
func CreateUserAgent(correlationID, provider string) string {
	return fmt.Sprintf("skautis-gate/%s (correlation_id=%s; provider=%s)",
		buildinfo.Version, correlationID, provider)
}

// BuildAuditor constructs the configured auditor. A disabled config
// yields the noop auditor.
func BuildAuditor(cfg config.AuditConfig) (core.Auditor, error) {
	if !cfg.Enabled {
		return NewNoopAuditor(), nil
	}
	switch cfg.Type {
	case "", "memory":
		return NewInMemoryAuditor(), nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file auditor requires a path")
		}
		return NewFileAuditor(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown auditor type %q", cfg.Type)
	}
}
