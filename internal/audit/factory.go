package audit

import (
	"fmt"

	"github.com/CyrilRPG/diploma/internal/config"
	"github.com/CyrilRPG/diploma/internal/core"
)

// FromConfig builds the auditor selected by the configuration.
func FromConfig(cfg config.AuditConfig) (core.Auditor, error) {
	if !cfg.Enabled {
		return NewNoopAuditor(), nil
	}
	switch cfg.Type {
	case "memory", "":
		return NewInMemoryAuditor(), nil
	case "file":
		return NewFileAuditor(cfg.Path)
	case "noop":
		return NewNoopAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown auditor type '%s'", cfg.Type)
	}
}
