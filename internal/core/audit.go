package core

import "time"

// AuditEntry records one gate decision.
type AuditEntry struct {
	// ID is the correlation ID of the request that produced the entry.
	ID string `json:"id"`

	// Time the decision was made.
	Time time.Time `json:"time"`

	// Action is the decision kind, e.g. "rules.check",
	// "visibility.resolve", "registration.register".
	Action string `json:"action"`

	// Actor the decision was made for.
	Actor Actor `json:"actor"`

	// ContentID is the content node involved, if any.
	ContentID ContentID `json:"content_id,omitempty"`

	// RuleSets are the rule-set IDs that were evaluated.
	RuleSets []ContentID `json:"rule_sets,omitempty"`

	// Passed records the pass/fail outcome.
	Passed bool `json:"passed"`

	// Outcome is the applied result, e.g. "visible", "login_required",
	// "unauthorized", or a granted role name.
	Outcome string `json:"outcome,omitempty"`

	// Error holds a short error description when the decision failed
	// closed because of one.
	Error string `json:"error,omitempty"`
}

// Auditor persists gate decisions.
type Auditor interface {
	// Log writes a new audit entry.
	Log(entry AuditEntry) error

	// Find returns the most recent limit entries matching the filter,
	// in chronological order. limit <= 0 means no limit.
	Find(filter func(AuditEntry) bool, limit int) ([]AuditEntry, error)

	// Close flushes and releases any underlying resources.
	Close() error
}
