package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/skaut/skautis-gate/internal/core"
)

// Kind identifies a rule variant. The set is closed: stored rules
// referencing anything else fail with core.ErrUnknownRuleKind.
type Kind string

const (
	KindRole          Kind = "role"
	KindQualification Kind = "qualification"
	KindMembership    Kind = "membership"
	KindFunc          Kind = "func"
)

// Descriptor is the static metadata of one rule variant, exposed to the
// rule-authoring UI.
type Descriptor struct {
	Kind      Kind
	Label     string
	Shape     Shape
	Operators []Operator

	// Catalog names the organization-wide value catalog backing the
	// variant's selectable values.
	Catalog core.CatalogName
}

// descriptors is the fixed, ordered enumeration of all variants.
var descriptors = []Descriptor{
	{
		Kind:      KindRole,
		Label:     "Role",
		Shape:     ShapeMulti,
		Operators: []Operator{OpIn, OpNotIn},
		Catalog:   core.CatalogRoles,
	},
	{
		Kind:      KindQualification,
		Label:     "Qualification",
		Shape:     ShapeList,
		Operators: []Operator{OpIn},
		Catalog:   core.CatalogQualifications,
	},
	{
		Kind:      KindMembership,
		Label:     "Membership",
		Shape:     ShapeMulti,
		Operators: []Operator{OpIn, OpNotIn},
		Catalog:   core.CatalogMemberships,
	},
	{
		Kind:      KindFunc,
		Label:     "Function",
		Shape:     ShapeMulti,
		Operators: []Operator{OpIn, OpNotIn},
		Catalog:   core.CatalogFunctions,
	},
}

// FactSource supplies the actor's derived facts to variant evaluation.
// Implementations memoize: each map is computed at most once per
// request, however many rules consume it.
type FactSource interface {
	// RoleUnits maps each role ID the actor holds to the normalized-
	// comparable unit registration numbers it is held under.
	RoleUnits(ctx context.Context) (map[string][]string, error)

	// QualificationSet is the set of qualification type IDs the actor
	// currently holds.
	QualificationSet(ctx context.Context) (map[string]struct{}, error)

	// MembershipUnits maps membership type IDs to unit registration
	// numbers, like RoleUnits.
	MembershipUnits(ctx context.Context) (map[string][]string, error)

	// FunctionUnits maps function type IDs to unit registration
	// numbers, like RoleUnits.
	FunctionUnits(ctx context.Context) (map[string][]string, error)
}

// Evaluate dispatches isSatisfied for the given variant kind. Errors
// carry one of the core sentinel errors; the engine decides whether to
// swallow them (production) or surface them (debug).
func Evaluate(ctx context.Context, kind Kind, op Operator, encoded string, src FactSource) (bool, error) {
	switch kind {
	case KindRole:
		held, err := src.RoleUnits(ctx)
		if err != nil {
			return false, err
		}
		return evaluateSet(op, encoded, held)

	case KindQualification:
		return evaluateQualification(ctx, op, encoded, src)

	case KindMembership:
		held, err := src.MembershipUnits(ctx)
		if err != nil {
			return false, err
		}
		return evaluateSet(op, encoded, held)

	case KindFunc:
		held, err := src.FunctionUnits(ctx)
		if err != nil {
			return false, err
		}
		return evaluateSet(op, encoded, held)
	}
	return false, fmt.Errorf("%w: %q", core.ErrUnknownRuleKind, kind)
}

// evaluateSet implements the shared in/not_in counting semantics of the
// role, membership and func variants.
//
// For "in" a candidate contributes when the actor holds it, for
// "not_in" when the actor does not. A held candidate then contributes
// once per unit satisfying the unit operator. The rule passes when the
// total contribution is positive.
//
// Note the known oddity this preserves: with unit operator equal or
// begins_with, "in" and "not_in" are not complements. A held candidate
// with no matching unit contributes to neither, so both can evaluate
// false at once. Only with unit operator "any" are the two exact
// negations of each other.
func evaluateSet(op Operator, encoded string, held map[string][]string) (bool, error) {
	val, err := ParseSetValue(encoded)
	if err != nil {
		return false, err
	}

	var negation int
	switch op {
	case OpIn:
		negation = 0
	case OpNotIn:
		negation = 1
	default:
		return false, fmt.Errorf("%w: %q", core.ErrUnknownOperator, op)
	}

	switch val.UnitOperator {
	case OpEqual, OpBeginsWith, OpAny:
	default:
		return false, fmt.Errorf("%w: unit operator %q", core.ErrUnknownOperator, val.UnitOperator)
	}

	want := NormalizeUnit(val.UnitParam)

	count := 0
	for _, candidate := range val.Candidates {
		units, present := held[candidate]

		presence := 0
		if present {
			presence = 1
		}
		if negation+presence != 1 {
			continue
		}
		if !present {
			// not_in and the actor does not hold it: passes outright,
			// there are no units to compare.
			count++
			continue
		}

		for _, unit := range units {
			switch val.UnitOperator {
			case OpEqual:
				if NormalizeUnit(unit) == want {
					count++
				}
			case OpBeginsWith:
				if strings.HasPrefix(NormalizeUnit(unit), want) {
					count++
				}
			case OpAny:
				count++
			}
		}
	}

	return count > 0, nil
}

// evaluateQualification passes when the actor's valid qualifications
// intersect the candidate list. The only declared operator is "in".
func evaluateQualification(ctx context.Context, op Operator, encoded string, src FactSource) (bool, error) {
	if op != OpIn {
		return false, fmt.Errorf("%w: %q", core.ErrUnknownOperator, op)
	}
	val, err := ParseListValue(encoded)
	if err != nil {
		return false, err
	}
	qualifications, err := src.QualificationSet(ctx)
	if err != nil {
		return false, err
	}

	count := 0
	for _, candidate := range val.Candidates {
		if _, ok := qualifications[candidate]; ok {
			count++
		}
	}
	return count > 0, nil
}
