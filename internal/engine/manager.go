package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/rs/zerolog/log"

	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/facts"
	"github.com/skaut/skautis-gate/internal/rules"
)

// Manager evaluates stored rule sets for one actor within one request.
// It owns the request-scoped facts cache; construct a fresh Manager per
// request and discard it afterwards.
type Manager struct {
	registry *rules.Registry
	store    core.RuleStore
	facts    *facts.Cache
	debug    bool
}

func NewManager(registry *rules.Registry, store core.RuleStore, cache *facts.Cache, debug bool) *Manager {
	return &Manager{
		registry: registry,
		store:    store,
		facts:    cache,
		debug:    debug,
	}
}

// Facts exposes the request-scoped cache, e.g. for the authentication
// check in the visibility resolver.
func (m *Manager) Facts() *facts.Cache {
	return m.facts
}

// EvaluateTree evaluates one authored expression tree against the
// actor's facts. The stored "valid" flag on the tree is ignored.
func (m *Manager) EvaluateTree(ctx context.Context, node *core.Node) (bool, error) {
	cr, err := m.evaluateNode(ctx, node)
	if err != nil {
		return false, err
	}
	return cr.Matched, nil
}

// evaluateRuleSet evaluates a stored rule set: the authored tree and,
// when present, the additional compiled expression. Both must hold.
func (m *Manager) evaluateRuleSet(ctx context.Context, rs *core.RuleSet) (core.RuleSetResult, error) {
	result := core.RuleSetResult{
		RuleSetID:   rs.ID,
		Name:        rs.Name,
		Description: rs.Description,
		Matched:     true,
	}

	if rs.Tree != nil {
		cr, err := m.evaluateNode(ctx, rs.Tree)
		if err != nil {
			return result, err
		}
		flattenConditionResult(&result.ConditionResults, cr, 0)
		if !cr.Matched {
			result.Matched = false
		}
	}

	if rs.CompiledExpr != nil {
		snapshot, err := m.facts.Snapshot(ctx)
		if err != nil {
			// fail closed
			result.Matched = false
			result.ConditionResults = append(result.ConditionResults, core.ConditionResult{
				Expression: rs.Expr,
				Matched:    false,
				Reason:     fmt.Sprintf("fetching facts: %v", err),
			})
			return result, nil
		}
		out, err := expr.Run(rs.CompiledExpr, map[string]any{
			"facts": snapshot,
			"actor": m.facts.Actor(),
		})
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msgf("error evaluating expression for rule set '%s'", rs.Name)
			result.Matched = false
			result.ConditionResults = append(result.ConditionResults, core.ConditionResult{
				Expression: rs.Expr,
				Matched:    false,
				Reason:     fmt.Sprintf("error evaluating expression: %v", err),
			})
			return result, nil
		}
		if b, ok := out.(bool); !ok || !b {
			result.Matched = false
			result.ConditionResults = append(result.ConditionResults, core.ConditionResult{
				Expression: rs.Expr,
				Matched:    false,
				Reason:     "expression evaluated to false",
			})
		} else {
			result.ConditionResults = append(result.ConditionResults, core.ConditionResult{
				Expression: rs.Expr,
				Matched:    true,
			})
		}
	}

	return result, nil
}

// UserPassedRules reports whether the actor passes any of the
// referenced stored rule sets (short-circuit OR across the list, in
// order). A rule set that cannot be loaded is skipped: it does not
// count as a pass and does not abort the scan.
func (m *Manager) UserPassedRules(ctx context.Context, ids []core.ContentID) (bool, error) {
	for _, id := range ids {
		rs, err := m.store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrMissingRuleTree) {
				log.Ctx(ctx).Warn().Int64("rule_set", int64(id)).Msg("referenced rule set not found, skipping")
				continue
			}
			return false, fmt.Errorf("loading rule set %d: %w", id, err)
		}
		result, err := m.evaluateRuleSet(ctx, rs)
		if err != nil {
			return false, err
		}
		if result.Matched {
			return true, nil
		}
	}
	return false, nil
}

// PassedRoleForRules evaluates the ordered (rule set, role) pairs and
// returns the role of the first pair whose rule set the actor passes.
// First match wins; order is the policy, not specificity.
func (m *Manager) PassedRoleForRules(ctx context.Context, pairs []core.RegistrationRule) (string, bool, error) {
	for _, pair := range pairs {
		passed, err := m.UserPassedRules(ctx, []core.ContentID{pair.Rule})
		if err != nil {
			return "", false, err
		}
		if passed {
			return pair.Role, true, nil
		}
	}
	return "", false, nil
}

// Trace evaluates every referenced rule set and returns the full
// evaluation trace, for the explain surface. Unlike UserPassedRules it
// does not short-circuit.
func (m *Manager) Trace(ctx context.Context, ids []core.ContentID) core.EvaluationTrace {
	trace := core.EvaluationTrace{
		Actor:         m.facts.Actor(),
		Authenticated: m.facts.Authenticated(ctx),
	}

	for _, id := range ids {
		rs, err := m.store.Load(ctx, id)
		if err != nil {
			trace.RuleSetResults = append(trace.RuleSetResults, core.RuleSetResult{
				RuleSetID: id,
				Matched:   false,
				ConditionResults: []core.ConditionResult{{
					Matched: false,
					Reason:  err.Error(),
				}},
			})
			continue
		}
		result, err := m.evaluateRuleSet(ctx, rs)
		if err != nil {
			result.Matched = false
		}
		trace.RuleSetResults = append(trace.RuleSetResults, result)
		if result.Matched && !trace.FinalDecision {
			trace.FinalDecision = true
			trace.GrantedRuleSet = rs.Name
		}
	}

	return trace
}

func flattenConditionResult(out *[]core.ConditionResult, cr core.ConditionResult, depth int) {
	indent := strings.Repeat("  ", depth)

	if cr.Expression != "" {
		*out = append(*out, core.ConditionResult{
			Expression: indent + cr.Expression,
			Matched:    cr.Matched,
			Reason:     cr.Reason,
		})
		return
	}

	if cr.Label != "" {
		*out = append(*out, core.ConditionResult{
			Expression: indent + "[" + cr.Label + "]",
			Matched:    cr.Matched,
			Reason:     cr.Reason,
		})
	}

	for _, child := range cr.Children {
		flattenConditionResult(out, child, depth+1)
	}
}
