package rules

import (
	"context"
	"fmt"

	"github.com/skaut/skautis-gate/internal/core"
)

// CatalogSource supplies the organization-wide value catalogs.
// Implementations memoize per request.
type CatalogSource interface {
	Catalog(ctx context.Context, name core.CatalogName) (map[string]string, error)
}

// Registry enumerates the rule variants and serves their metadata to
// the authoring surface. It is stateless; catalog caching lives in the
// CatalogSource.
type Registry struct {
	catalogs CatalogSource
}

func NewRegistry(catalogs CatalogSource) *Registry {
	return &Registry{catalogs: catalogs}
}

// Variants returns the fixed, ordered enumeration of all variants.
func (r *Registry) Variants() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Resolve returns the descriptor for the given variant ID.
func (r *Registry) Resolve(id string) (Descriptor, error) {
	for _, d := range descriptors {
		if d.Kind == Kind(id) {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", core.ErrUnknownRuleKind, id)
}

// AvailableValues returns the id -> label map of selectable values for
// the variant, fetched from the identity service.
func (r *Registry) AvailableValues(ctx context.Context, kind Kind) (map[string]string, error) {
	d, err := r.Resolve(string(kind))
	if err != nil {
		return nil, err
	}
	values, err := r.catalogs.Catalog(ctx, d.Catalog)
	if err != nil {
		return nil, fmt.Errorf("fetching %s catalog: %w", d.Catalog, err)
	}
	return values, nil
}
