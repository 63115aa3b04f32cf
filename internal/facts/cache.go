package facts

import (
	"context"
	"sync"

	"github.com/skaut/skautis-gate/internal/core"
)

// Cache memoizes identity lookups for one actor within one request.
// Every fact category and catalog is fetched from the provider at most
// once; the result (or the error) is reused for the remainder of the
// request. A Cache must never be shared across requests or actors.
type Cache struct {
	provider core.FactsProvider
	actor    core.Actor

	mu sync.Mutex

	authenticated *bool

	roles    *fetched[[]core.RoleAssignment]
	quals    *fetched[[]string]
	members  *fetched[[]core.Membership]
	funcs    *fetched[[]core.FunctionAssignment]
	catalogs map[core.CatalogName]*fetched[map[string]string]

	// derived maps, computed once from the raw categories
	roleUnits       map[string][]string
	qualSet         map[string]struct{}
	membershipUnits map[string][]string
	functionUnits   map[string][]string
}

// fetched is one memoized remote result.
type fetched[T any] struct {
	value T
	err   error
}

// NewCache creates an empty cache for the given actor. Callers create
// one per request and throw it away afterwards.
func NewCache(provider core.FactsProvider, actor core.Actor) *Cache {
	return &Cache{
		provider: provider,
		actor:    actor,
		catalogs: make(map[core.CatalogName]*fetched[map[string]string]),
	}
}

// Actor returns the actor the cache was created for.
func (c *Cache) Actor() core.Actor {
	return c.actor
}

// Authenticated reports whether the actor has a live identity session.
// A provider failure counts as not authenticated.
func (c *Cache) Authenticated(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.authenticated == nil {
		ok := c.provider.IsAuthenticated(ctx, c.actor)
		c.authenticated = &ok
	}
	return *c.authenticated
}

// Snapshot returns the full facts snapshot, fetching any category not
// yet cached.
func (c *Cache) Snapshot(ctx context.Context) (*core.IdentityFacts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	roles, err := c.fetchRoles(ctx)
	if err != nil {
		return nil, err
	}
	quals, err := c.fetchQualifications(ctx)
	if err != nil {
		return nil, err
	}
	members, err := c.fetchMemberships(ctx)
	if err != nil {
		return nil, err
	}
	funcs, err := c.fetchFunctions(ctx)
	if err != nil {
		return nil, err
	}

	return &core.IdentityFacts{
		Roles:          roles,
		Qualifications: quals,
		Memberships:    members,
		Functions:      funcs,
	}, nil
}

// RoleUnits maps each role ID the actor holds to the unit registration
// numbers it is held under.
func (c *Cache) RoleUnits(ctx context.Context) (map[string][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.roleUnits == nil {
		roles, err := c.fetchRoles(ctx)
		if err != nil {
			return nil, err
		}
		units := make(map[string][]string)
		for _, r := range roles {
			units[r.RoleID] = append(units[r.RoleID], r.UnitID)
		}
		c.roleUnits = units
	}
	return c.roleUnits, nil
}

// QualificationSet is the set of qualification type IDs the actor
// currently holds.
func (c *Cache) QualificationSet(ctx context.Context) (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.qualSet == nil {
		quals, err := c.fetchQualifications(ctx)
		if err != nil {
			return nil, err
		}
		set := make(map[string]struct{}, len(quals))
		for _, q := range quals {
			set[q] = struct{}{}
		}
		c.qualSet = set
	}
	return c.qualSet, nil
}

// MembershipUnits maps membership type IDs to unit registration
// numbers.
func (c *Cache) MembershipUnits(ctx context.Context) (map[string][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.membershipUnits == nil {
		members, err := c.fetchMemberships(ctx)
		if err != nil {
			return nil, err
		}
		units := make(map[string][]string)
		for _, m := range members {
			units[m.TypeID] = append(units[m.TypeID], m.UnitID)
		}
		c.membershipUnits = units
	}
	return c.membershipUnits, nil
}

// FunctionUnits maps function type IDs to unit registration numbers.
func (c *Cache) FunctionUnits(ctx context.Context) (map[string][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.functionUnits == nil {
		funcs, err := c.fetchFunctions(ctx)
		if err != nil {
			return nil, err
		}
		units := make(map[string][]string)
		for _, f := range funcs {
			units[f.TypeID] = append(units[f.TypeID], f.UnitID)
		}
		c.functionUnits = units
	}
	return c.functionUnits, nil
}

// Catalog returns the organization-wide value catalog, fetched at most
// once per request.
func (c *Cache) Catalog(ctx context.Context, name core.CatalogName) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.catalogs[name]; ok {
		return f.value, f.err
	}
	values, err := c.provider.Catalog(ctx, name)
	c.catalogs[name] = &fetched[map[string]string]{value: values, err: err}
	return values, err
}

// The fetch helpers below run with c.mu held.

func (c *Cache) fetchRoles(ctx context.Context) ([]core.RoleAssignment, error) {
	if c.roles == nil {
		roles, err := c.provider.ActiveRoles(ctx, c.actor.LoginID)
		c.roles = &fetched[[]core.RoleAssignment]{value: roles, err: err}
	}
	return c.roles.value, c.roles.err
}

func (c *Cache) fetchQualifications(ctx context.Context) ([]string, error) {
	if c.quals == nil {
		quals, err := c.provider.Qualifications(ctx, c.actor.PersonID)
		c.quals = &fetched[[]string]{value: quals, err: err}
	}
	return c.quals.value, c.quals.err
}

func (c *Cache) fetchMemberships(ctx context.Context) ([]core.Membership, error) {
	if c.members == nil {
		members, err := c.provider.Memberships(ctx, c.actor.PersonID)
		c.members = &fetched[[]core.Membership]{value: members, err: err}
	}
	return c.members.value, c.members.err
}

func (c *Cache) fetchFunctions(ctx context.Context) ([]core.FunctionAssignment, error) {
	if c.funcs == nil {
		funcs, err := c.provider.Functions(ctx, c.actor.PersonID)
		c.funcs = &fetched[[]core.FunctionAssignment]{value: funcs, err: err}
	}
	return c.funcs.value, c.funcs.err
}
