package core

// Actor identifies the current visitor against skautIS.
// LoginID keys role lookups, PersonID keys person-bound lookups
// (qualifications, memberships, functions).
type Actor struct {
	// LoginID is the skautIS login GUID of the actor.
	LoginID string `json:"login_id"`

	// PersonID is the skautIS person ID of the actor.
	PersonID int64 `json:"person_id"`
}

// RoleAssignment is one active role of the actor, bound to a unit.
type RoleAssignment struct {
	// RoleID is the skautIS role type ID.
	RoleID string `json:"role_id"`

	// UnitID is the registration number of the unit the role is held
	// under, e.g. "123.45-6". Comparisons normalize this first.
	UnitID string `json:"unit_id"`
}

// Membership is one membership record of the actor.
type Membership struct {
	// TypeID is the skautIS membership type ID.
	TypeID string `json:"type_id"`

	// UnitID is the registration number of the unit.
	UnitID string `json:"unit_id"`
}

// FunctionAssignment is one function appointment of the actor.
type FunctionAssignment struct {
	// TypeID is the skautIS function type ID.
	TypeID string `json:"type_id"`

	// UnitID is the registration number of the unit.
	UnitID string `json:"unit_id"`
}

// IdentityFacts is the per-request snapshot of everything known about
// the actor. It is read-only for the evaluation code and never outlives
// the request that fetched it.
type IdentityFacts struct {
	Roles          []RoleAssignment     `json:"roles"`
	Qualifications []string             `json:"qualifications"`
	Memberships    []Membership         `json:"memberships"`
	Functions      []FunctionAssignment `json:"functions"`
}

// ContentID references a content node (a post or page) in the content
// store.
type ContentID int64

// VisibilityMode selects how an unauthorized node is hidden.
type VisibilityMode string

const (
	// VisibilityFull removes the node from listings entirely.
	VisibilityFull VisibilityMode = "full"

	// VisibilityContent keeps the node listed but blanks its body and
	// excerpt and closes comments.
	VisibilityContent VisibilityMode = "content"
)

// RuleAssignment is the rule configuration attached to a content node.
// The core only ever reads these; authoring happens elsewhere.
type RuleAssignment struct {
	// Rules is an ordered list of stored rule-set IDs. The actor passes
	// when any of them evaluates true.
	Rules []ContentID `yaml:"rules" json:"rules"`

	// IncludeChildren extends this assignment to descendant nodes that
	// have no assignment of their own.
	IncludeChildren bool `yaml:"include_children" json:"include_children"`

	// Mode selects full or content-only hiding.
	Mode VisibilityMode `yaml:"mode" json:"mode"`
}

// Empty reports whether the assignment carries no rules at all.
func (a *RuleAssignment) Empty() bool {
	return a == nil || len(a.Rules) == 0
}

// RegistrationRule binds a stored rule set to the role granted when the
// rule set is the first one the actor passes.
type RegistrationRule struct {
	Rule ContentID `yaml:"rule" json:"rule"`
	Role string    `yaml:"role" json:"role"`
}
