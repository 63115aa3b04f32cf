package facts

import (
	"fmt"

	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
)

// BuildProvider constructs the configured identity facts provider.
func BuildProvider(cfg config.ProviderConfig) (core.FactsProvider, error) {
	switch cfg.Type {
	case StaticType:
		prov, err := NewStaticProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("building static provider %q: %w", cfg.Name, err)
		}
		return prov, nil
	case SkautisType:
		prov, err := NewSkautisProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("building skautis provider %q: %w", cfg.Name, err)
		}
		return prov, nil
	default:
		return nil, fmt.Errorf("unknown provider type %q for provider %q", cfg.Type, cfg.Name)
	}
}
