package visibility

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/engine"
)

// Outcome is the visibility decision for one content node.
type Outcome string

const (
	// OutcomeVisible shows the node as normal.
	OutcomeVisible Outcome = "visible"

	// OutcomeLoginRequired hides the node because the actor has no
	// identity session (or the identity service failed — the resolver
	// fails closed).
	OutcomeLoginRequired Outcome = "login_required"

	// OutcomeUnauthorized hides the node because the actor did not pass
	// the effective rule set.
	OutcomeUnauthorized Outcome = "unauthorized"
)

// Decision is the resolved visibility of one content node.
type Decision struct {
	Outcome Outcome `json:"outcome"`

	// Mode is how the hiding is applied; only meaningful when Outcome
	// is not visible.
	Mode core.VisibilityMode `json:"mode,omitempty"`

	// RuleSets are the rule-set IDs of the effective assignment, empty
	// when the node is ungated.
	RuleSets []core.ContentID `json:"rule_sets,omitempty"`

	// Inherited reports whether the effective assignment came from an
	// ancestor rather than the node itself.
	Inherited bool `json:"inherited"`
}

// Resolver decides content-node visibility from the node's own and
// inherited rule assignments.
type Resolver struct {
	tree core.ContentTree
}

func NewResolver(tree core.ContentTree) *Resolver {
	return &Resolver{tree: tree}
}

// EffectiveAssignment finds the rule assignment governing the node: the
// node's own assignment when it has one, otherwise the assignment of
// the nearest ancestor whose assignment extends to children. Returns
// the assignment, whether it was inherited, and whether one exists at
// all.
func (r *Resolver) EffectiveAssignment(ctx context.Context, id core.ContentID) (*core.RuleAssignment, bool, error) {
	own, err := r.tree.RuleAssignment(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("reading rule assignment for node %d: %w", id, err)
	}
	if !own.Empty() {
		return own, false, nil
	}

	ancestors, err := r.tree.Ancestors(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("reading ancestors of node %d: %w", id, err)
	}
	// ancestors are nearest-first, so the first applicable one wins
	for _, ancestor := range ancestors {
		assignment, err := r.tree.RuleAssignment(ctx, ancestor)
		if err != nil {
			return nil, false, fmt.Errorf("reading rule assignment for ancestor %d: %w", ancestor, err)
		}
		if assignment.Empty() || !assignment.IncludeChildren {
			continue
		}
		return assignment, true, nil
	}

	return nil, false, nil
}

// Resolve decides the visibility of one content node for the actor
// behind the manager's facts cache.
//
// canEdit marks actors with edit capability on the content type; they
// bypass every rule check, decided before any remote identity call.
func (r *Resolver) Resolve(ctx context.Context, id core.ContentID, mgr *engine.Manager, canEdit bool) (Decision, error) {
	if canEdit {
		return Decision{Outcome: OutcomeVisible}, nil
	}

	assignment, inherited, err := r.EffectiveAssignment(ctx, id)
	if err != nil {
		return Decision{}, err
	}
	if assignment.Empty() {
		// ungated nodes are visible regardless of identity state
		return Decision{Outcome: OutcomeVisible}, nil
	}

	decision := Decision{
		Mode:      assignment.Mode,
		RuleSets:  assignment.Rules,
		Inherited: inherited,
	}

	if !mgr.Facts().Authenticated(ctx) {
		decision.Outcome = OutcomeLoginRequired
		return decision, nil
	}

	passed, err := mgr.UserPassedRules(ctx, assignment.Rules)
	if err != nil {
		// fail closed: evaluation errors read as "not logged in"
		log.Ctx(ctx).Warn().Err(err).Int64("node", int64(id)).Msg("rule evaluation failed, hiding content")
		decision.Outcome = OutcomeLoginRequired
		return decision, nil
	}
	if passed {
		decision.Outcome = OutcomeVisible
		return decision, nil
	}

	decision.Outcome = OutcomeUnauthorized
	return decision, nil
}
