package service

import (
	"github.com/skaut/skautis-gate/internal/core"
)

// CheckRequest asks whether the actor passes any of the referenced
// stored rule sets.
type CheckRequest struct {
	Actor    core.Actor       `json:"actor"`
	RuleSets []core.ContentID `json:"rule_sets"`
}

type CheckResponse struct {
	Passed bool `json:"passed"`
}

// VisibilityRequest asks for the visibility decision on one content
// node.
type VisibilityRequest struct {
	Actor     core.Actor     `json:"actor"`
	ContentID core.ContentID `json:"content_id"`

	// CanEdit marks actors with edit capability on the content type;
	// they bypass all rule checks.
	CanEdit bool `json:"can_edit"`
}

// RegisterRequest asks the registration gate to authorize and create an
// account for the actor.
type RegisterRequest struct {
	Actor core.Actor `json:"actor"`
}

type RegisterResponse struct {
	Role string `json:"role"`
}

// ExplainRequest asks for a full evaluation trace. An empty RuleSets
// list traces every stored rule set.
type ExplainRequest struct {
	Actor    core.Actor       `json:"actor"`
	RuleSets []core.ContentID `json:"rule_sets"`
}

// VariantInfo is the authoring-surface view of one rule variant.
type VariantInfo struct {
	Kind      string            `json:"kind"`
	Label     string            `json:"label"`
	Shape     string            `json:"shape"`
	Operators []string          `json:"operators"`
	Values    map[string]string `json:"values,omitempty"`
}
