package core

// GroupCondition combines the children of a group node.
type GroupCondition string

const (
	ConditionAnd GroupCondition = "AND"
	ConditionOr  GroupCondition = "OR"
)

// Node is one node of an authored rule expression tree, in the exact
// shape the visual rule builder persists it: a group carries Condition
// plus nested Rules, a leaf carries the rule fields. The struct must
// round-trip through JSON byte-for-byte, so every field is optional.
type Node struct {
	// Group fields.
	Condition GroupCondition `json:"condition,omitempty"`
	Rules     []Node         `json:"rules,omitempty"`

	// Valid is set by the authoring UI on the top-level group. The
	// evaluator re-derives validity itself and ignores this flag.
	Valid *bool `json:"valid,omitempty"`

	// Leaf fields.
	ID       string `json:"id,omitempty"`
	Field    string `json:"field,omitempty"`
	Type     string `json:"type,omitempty"`
	Input    string `json:"input,omitempty"`
	Operator string `json:"operator,omitempty"`
	Value    string `json:"value,omitempty"`
}

// IsGroup reports whether the node is an AND/OR group rather than a
// leaf rule.
func (n *Node) IsGroup() bool {
	return n.Condition != ""
}
