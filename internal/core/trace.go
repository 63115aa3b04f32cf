package core

// EvaluationTrace captures the detailed trace of one access evaluation.
type EvaluationTrace struct {
	// CorrelationID is the unique identifier for the evaluation request.
	CorrelationID string `yaml:"correlation_id" json:"correlation_id"`

	// Actor being evaluated.
	Actor Actor `yaml:"actor" json:"actor"`

	// Authenticated records whether the actor had a live skautIS
	// session when the trace was taken.
	Authenticated bool `yaml:"authenticated" json:"authenticated"`

	// RuleSetResults contains the result of every rule set evaluated.
	RuleSetResults []RuleSetResult `yaml:"rule_set_results" json:"rule_set_results"`

	// FinalDecision indicates whether access was granted or denied.
	FinalDecision bool `yaml:"final_decision" json:"final_decision"`

	// GrantedRuleSet is the name of the rule set that granted access,
	// if any.
	GrantedRuleSet string `yaml:"granted_rule_set,omitempty" json:"granted_rule_set,omitempty"`
}

// RuleSetResult captures why a specific rule set matched or failed.
type RuleSetResult struct {
	RuleSetID        ContentID         `yaml:"rule_set_id" json:"rule_set_id"`
	Name             string            `yaml:"name" json:"name"`
	Description      string            `yaml:"description" json:"description"`
	Matched          bool              `yaml:"matched" json:"matched"`
	ConditionResults []ConditionResult `json:"condition_results,omitempty"`
}

// ConditionResult is one line of a rule-set trace.
type ConditionResult struct {
	Matched bool

	// For leaves
	Expression string `json:"expression"` // e.g. "role in [leader] @ unit equal 123.45"
	Reason     string `json:"reason,omitempty"`

	// For branching
	Label    string // e.g. "AND"
	Children []ConditionResult
}
