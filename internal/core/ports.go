package core

import "context"

// FactsProvider is the boundary to the remote identity service.
// Implementations: skautIS bridge client, static fixture provider.
// Every call is an ordinary synchronous remote lookup; callers are
// expected to go through the per-request cache instead of hitting a
// provider directly.
type FactsProvider interface {
	// Name returns the identifier of this provider (as used in config).
	Name() string

	// IsAuthenticated reports whether the actor has a live skautIS
	// session. A failing remote call counts as not authenticated.
	IsAuthenticated(ctx context.Context, actor Actor) bool

	// ActiveRoles returns the actor's active role assignments.
	ActiveRoles(ctx context.Context, loginID string) ([]RoleAssignment, error)

	// Qualifications returns the IDs of the actor's valid, non-expired
	// qualifications.
	Qualifications(ctx context.Context, personID int64) ([]string, error)

	// Memberships returns the actor's membership records.
	Memberships(ctx context.Context, personID int64) ([]Membership, error)

	// Functions returns the actor's function appointments.
	Functions(ctx context.Context, personID int64) ([]FunctionAssignment, error)

	// UnitRegistrationNumber resolves a unit ID to its registration
	// number string.
	UnitRegistrationNumber(ctx context.Context, unitID string) (string, error)

	// Catalog returns the id -> label map of all values known to the
	// organization for the given catalog (roles, qualification types,
	// membership types, function types). It backs the rule builder's
	// selectable value sets, not the actor's own facts.
	Catalog(ctx context.Context, name CatalogName) (map[string]string, error)
}

// CatalogName selects one of the organization-wide value catalogs.
type CatalogName string

const (
	CatalogRoles          CatalogName = "roles"
	CatalogQualifications CatalogName = "qualifications"
	CatalogMemberships    CatalogName = "memberships"
	CatalogFunctions      CatalogName = "functions"
)

// RuleStore loads stored rule sets by content ID.
type RuleStore interface {
	// Load returns the rule set with the given ID, or an error wrapping
	// ErrMissingRuleTree when it does not exist or cannot be parsed.
	Load(ctx context.Context, id ContentID) (*RuleSet, error)

	// List returns all stored rule sets, ordered by ID.
	List(ctx context.Context) ([]*RuleSet, error)
}

// ContentTree is the boundary to the content hierarchy.
type ContentTree interface {
	// Ancestors returns the ancestors of the node ordered
	// nearest-ancestor-first (parent, grandparent, ..., root).
	Ancestors(ctx context.Context, id ContentID) ([]ContentID, error)

	// RuleAssignment returns the node's own rule assignment, or nil
	// when it has none.
	RuleAssignment(ctx context.Context, id ContentID) (*RuleAssignment, error)
}

// UserStore creates accounts in the external user store after the
// registration gate has resolved a role.
type UserStore interface {
	CreateAccount(ctx context.Context, actor Actor, role string) error
}
