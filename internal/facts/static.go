package facts

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
)

const StaticType = "static"

var _ core.FactsProvider = (*StaticProvider)(nil)

// StaticProvider serves identity facts from fixture data in the config
// file. Meant for development and tests; there is no remote call
// behind it.
type StaticProvider struct {
	name     string
	actors   map[string]staticActor // keyed by login ID
	persons  map[int64]staticActor  // same actors, keyed by person ID
	units    map[string]string
	catalogs map[string]map[string]string
}

type staticActor struct {
	LoginID        string                    `mapstructure:"login_id"`
	PersonID       int64                     `mapstructure:"person_id"`
	Roles          []core.RoleAssignment     `mapstructure:"roles"`
	Qualifications []string                  `mapstructure:"qualifications"`
	Memberships    []core.Membership         `mapstructure:"memberships"`
	Functions      []core.FunctionAssignment `mapstructure:"functions"`
}

type staticConfig struct {
	Actors   []staticActor                `mapstructure:"actors"`
	Units    map[string]string            `mapstructure:"units"`
	Catalogs map[string]map[string]string `mapstructure:"catalogs"`
}

// NewStaticProvider builds a StaticProvider from the inline provider
// config.
func NewStaticProvider(cfg config.ProviderConfig) (*StaticProvider, error) {
	var conf staticConfig
	if err := mapstructure.Decode(cfg.Config, &conf); err != nil {
		return nil, fmt.Errorf("decoding config for %s provider %q: %w", StaticType, cfg.Name, err)
	}

	p := &StaticProvider{
		name:     cfg.Name,
		actors:   make(map[string]staticActor, len(conf.Actors)),
		persons:  make(map[int64]staticActor, len(conf.Actors)),
		units:    conf.Units,
		catalogs: conf.Catalogs,
	}
	for _, a := range conf.Actors {
		if a.LoginID == "" {
			return nil, fmt.Errorf("%s provider %q: actor without login_id", StaticType, cfg.Name)
		}
		p.actors[a.LoginID] = a
		p.persons[a.PersonID] = a
	}
	return p, nil
}

func (p *StaticProvider) Name() string {
	return p.name
}

func (p *StaticProvider) IsAuthenticated(_ context.Context, actor core.Actor) bool {
	_, ok := p.actors[actor.LoginID]
	return ok
}

func (p *StaticProvider) ActiveRoles(_ context.Context, loginID string) ([]core.RoleAssignment, error) {
	a, ok := p.actors[loginID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown login %q", core.ErrIdentityUnavailable, loginID)
	}
	return a.Roles, nil
}

func (p *StaticProvider) Qualifications(_ context.Context, personID int64) ([]string, error) {
	a, ok := p.persons[personID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown person %d", core.ErrIdentityUnavailable, personID)
	}
	return a.Qualifications, nil
}

func (p *StaticProvider) Memberships(_ context.Context, personID int64) ([]core.Membership, error) {
	a, ok := p.persons[personID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown person %d", core.ErrIdentityUnavailable, personID)
	}
	return a.Memberships, nil
}

func (p *StaticProvider) Functions(_ context.Context, personID int64) ([]core.FunctionAssignment, error) {
	a, ok := p.persons[personID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown person %d", core.ErrIdentityUnavailable, personID)
	}
	return a.Functions, nil
}

func (p *StaticProvider) UnitRegistrationNumber(_ context.Context, unitID string) (string, error) {
	number, ok := p.units[unitID]
	if !ok {
		return "", fmt.Errorf("%w: unknown unit %q", core.ErrIdentityUnavailable, unitID)
	}
	return number, nil
}

func (p *StaticProvider) Catalog(_ context.Context, name core.CatalogName) (map[string]string, error) {
	catalog, ok := p.catalogs[string(name)]
	if !ok {
		return map[string]string{}, nil
	}
	return catalog, nil
}
