package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/rules"
)

// Empty-group policy, matching the rule builder's "allow empty" UI
// semantics: an empty AND group passes, an empty OR group does not.
// The asymmetry is intentional.
const (
	emptyAndMatches = true
	emptyOrMatches  = false
)

// evaluateNode walks one node of an authored expression tree and
// returns its result with the full per-condition trace.
//
// The returned error is non-nil only in debug mode, for malformed
// values and unknown operators; production mode folds those into a
// false leaf so sibling nodes keep evaluating.
func (m *Manager) evaluateNode(ctx context.Context, node *core.Node) (core.ConditionResult, error) {
	if node.IsGroup() {
		return m.evaluateGroup(ctx, node)
	}
	return m.evaluateLeaf(ctx, node)
}

func (m *Manager) evaluateGroup(ctx context.Context, node *core.Node) (core.ConditionResult, error) {
	switch node.Condition {
	case core.ConditionAnd:
		res := core.ConditionResult{
			Matched: emptyAndMatches,
			Label:   "AND",
		}
		for i := range node.Rules {
			cr, err := m.evaluateNode(ctx, &node.Rules[i])
			if err != nil {
				return res, err
			}
			res.Children = append(res.Children, cr)
			if !cr.Matched {
				res.Matched = false
			}
		}
		return res, nil

	case core.ConditionOr:
		res := core.ConditionResult{
			Matched: emptyOrMatches,
			Label:   "OR",
		}
		for i := range node.Rules {
			cr, err := m.evaluateNode(ctx, &node.Rules[i])
			if err != nil {
				return res, err
			}
			res.Children = append(res.Children, cr)
			if cr.Matched {
				res.Matched = true
			}
		}
		return res, nil
	}

	// an unknown group condition never matches
	return core.ConditionResult{
		Matched: false,
		Label:   string(node.Condition),
		Reason:  fmt.Sprintf("unknown group condition %q", node.Condition),
	}, nil
}

func (m *Manager) evaluateLeaf(ctx context.Context, node *core.Node) (core.ConditionResult, error) {
	expression := fmt.Sprintf("%s %s %q", node.ID, node.Operator, node.Value)

	createCondition := func(passed bool, reason string) core.ConditionResult {
		return core.ConditionResult{
			Matched:    passed,
			Expression: expression,
			Reason:     reason,
		}
	}

	d, err := m.registry.Resolve(node.ID)
	if err != nil {
		// an unknown rule kind is always a silent false, even in debug;
		// it must not abort evaluation of sibling nodes
		return createCondition(false, err.Error()), nil
	}

	passed, err := rules.Evaluate(ctx, d.Kind, rules.Operator(node.Operator), node.Value, m.facts)
	if err != nil {
		if m.debug && (errors.Is(err, core.ErrUnknownOperator) || errors.Is(err, core.ErrMalformedRuleValue)) {
			return createCondition(false, err.Error()), err
		}
		// fail closed: provider failures and malformed rules read as
		// "actor does not pass"
		return createCondition(false, err.Error()), nil
	}

	return createCondition(passed, ""), nil
}
