package validation

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/skaut/skautis-gate/internal/core"
)

// ValidateRuleSet checks the structure of a stored rule set and
// compiles its optional expression. Unknown rule kinds and operators
// are deliberately not rejected here: stale references must degrade to
// "does not pass" at evaluation time, not break loading.
func ValidateRuleSet(rs *core.RuleSet) error {
	if rs.ID == 0 {
		return fmt.Errorf("rule set missing id")
	}
	if rs.Name == "" {
		return fmt.Errorf("rule set %d missing name", rs.ID)
	}
	if rs.Tree == nil && rs.Expr == "" {
		return fmt.Errorf("rule set '%s' has neither tree nor expr", rs.Name)
	}

	if rs.Tree != nil {
		if !rs.Tree.IsGroup() {
			return fmt.Errorf("rule set '%s': top-level node must be a group", rs.Name)
		}
		if err := validateNode(rs.Tree); err != nil {
			return fmt.Errorf("validating tree for rule set '%s': %w", rs.Name, err)
		}
	}

	if rs.Expr != "" {
		// compile and validate expression
		out, err := expr.Compile(rs.Expr, expr.AsBool())
		if err != nil {
			return fmt.Errorf("compiling expr for rule set '%s': %w", rs.Name, err)
		}
		rs.CompiledExpr = out
	}

	return nil
}

func validateNode(n *core.Node) error {
	if n.IsGroup() {
		switch n.Condition {
		case core.ConditionAnd, core.ConditionOr:
		default:
			return fmt.Errorf("unknown group condition %q", n.Condition)
		}
		if n.ID != "" || n.Operator != "" || n.Value != "" {
			return fmt.Errorf("group node carries leaf fields")
		}
		for i := range n.Rules {
			if err := validateNode(&n.Rules[i]); err != nil {
				return err
			}
		}
		return nil
	}

	if n.ID == "" {
		return fmt.Errorf("leaf node missing rule id")
	}
	if n.Operator == "" {
		return fmt.Errorf("leaf node for rule %q missing operator", n.ID)
	}
	if len(n.Rules) > 0 {
		return fmt.Errorf("leaf node for rule %q carries children", n.ID)
	}
	return nil
}
