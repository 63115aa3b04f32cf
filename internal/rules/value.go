package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skaut/skautis-gate/internal/core"
)

// Operator is one comparison from the fixed rule-builder vocabulary.
type Operator string

const (
	OpEqual      Operator = "equal"
	OpNotEqual   Operator = "not_equal"
	OpIn         Operator = "in"
	OpNotIn      Operator = "not_in"
	OpBeginsWith Operator = "begins_with"
	OpAny        Operator = "any"
)

// Shape describes the operand format a variant expects.
type Shape string

const (
	// ShapeMulti is a comma-separated multi-select list plus a unit
	// match, encoded as "a,b~op~unit".
	ShapeMulti Shape = "multi"

	// ShapeList is a plain comma-separated list, no unit match.
	ShapeList Shape = "list"
)

var unitStrip = strings.NewReplacer(".", "", "-", "")

// NormalizeUnit brings a unit registration number into comparable form:
// trimmed, with the "." and "-" separators removed. The operation is
// idempotent.
func NormalizeUnit(s string) string {
	return unitStrip.Replace(strings.TrimSpace(s))
}

// Value is the eagerly parsed form of an encoded rule operand. Internal
// evaluation code only ever sees this, never the wire string.
type Value struct {
	// Candidates are the selected IDs (roles, membership types,
	// function keys, qualification types).
	Candidates []string

	// UnitOperator compares the actor's unit against UnitParam. Only
	// meaningful for ShapeMulti variants.
	UnitOperator Operator

	// UnitParam is the unit registration number to compare against.
	UnitParam string
}

// setValueRe matches the "a,b~op~unit" encoding. The operator token is
// validated during evaluation, not here.
var setValueRe = regexp.MustCompile(`^[^~]+~[a-z_]+~[^~]*$`)

// listValueRe matches a bare comma-separated list.
var listValueRe = regexp.MustCompile(`^[^~]+$`)

// ParseSetValue parses the three-field tilde encoding used by the role,
// membership and func variants.
func ParseSetValue(encoded string) (Value, error) {
	if !setValueRe.MatchString(encoded) {
		return Value{}, fmt.Errorf("%w: %q", core.ErrMalformedRuleValue, encoded)
	}
	parts := strings.SplitN(encoded, "~", 3)
	return Value{
		Candidates:   splitList(parts[0]),
		UnitOperator: Operator(parts[1]),
		UnitParam:    parts[2],
	}, nil
}

// ParseListValue parses the single-field comma encoding used by the
// qualification variant.
func ParseListValue(encoded string) (Value, error) {
	if !listValueRe.MatchString(encoded) {
		return Value{}, fmt.Errorf("%w: %q", core.ErrMalformedRuleValue, encoded)
	}
	return Value{Candidates: splitList(encoded)}, nil
}

func splitList(s string) []string {
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
