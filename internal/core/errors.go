package core

import "errors"

// Evaluation errors. All of them are recovered inside the engine: the
// node in question evaluates to false and siblings keep evaluating. In
// debug mode the operator/value errors additionally surface as
// diagnostics instead of being swallowed.
var (
	// ErrUnknownRuleKind marks a stored rule referencing a variant ID
	// the registry does not know.
	ErrUnknownRuleKind = errors.New("unknown rule kind")

	// ErrUnknownOperator marks an operator outside the variant's
	// declared set.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrMalformedRuleValue marks an encoded value that does not match
	// the variant's expected format.
	ErrMalformedRuleValue = errors.New("malformed rule value")

	// ErrIdentityUnavailable marks a failed or unauthenticated remote
	// identity lookup. Consumers fail closed on it.
	ErrIdentityUnavailable = errors.New("identity facts unavailable")

	// ErrMissingRuleTree marks a referenced rule set that cannot be
	// loaded. OR-list evaluation skips it.
	ErrMissingRuleTree = errors.New("rule tree not found")
)
