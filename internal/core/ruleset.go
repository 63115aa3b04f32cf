package core

import "github.com/expr-lang/expr/vm"

// RuleSet is one stored, authored rule document.
type RuleSet struct {
	// ID is the content ID the rule set is stored under.
	ID ContentID `yaml:"id" json:"id"`

	// Name is a human-readable identifier for logs/debugging.
	Name string `yaml:"name" json:"name"`

	// Description explains the intent of the rule set.
	Description string `yaml:"description" json:"description"`

	// Tree is the authored boolean expression tree. May be nil when the
	// rule set is expression-only.
	Tree *Node `yaml:"tree" json:"tree"`

	// Expr is an optional expression for matching logic the visual
	// builder cannot express. It is evaluated against the facts
	// snapshot and must hold in addition to the tree.
	Expr string `yaml:"expr" json:"expr"`

	// CompiledExpr holds the pre-compiled form of Expr.
	CompiledExpr *vm.Program `yaml:"-" json:"-"`
}
