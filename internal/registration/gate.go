package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/engine"
)

// ErrNotAuthorized means registration rules exist and the actor passed
// none of them. Distinct from the no-rules case, where everyone is
// eligible for the default role.
var ErrNotAuthorized = errors.New("not authorized to register")

// Gate authorizes and classifies new-account creation.
type Gate struct {
	users core.UserStore
	cfg   config.RegistrationConfig
}

func NewGate(users core.UserStore, cfg config.RegistrationConfig) *Gate {
	return &Gate{users: users, cfg: cfg}
}

// Register resolves the role for the actor behind the manager's facts
// cache and creates the account. The configured pairs are evaluated in
// order; the first passing rule set decides the role.
func (g *Gate) Register(ctx context.Context, mgr *engine.Manager) (string, error) {
	role, err := g.EligibleRole(ctx, mgr)
	if err != nil {
		return "", err
	}

	if err := g.users.CreateAccount(ctx, mgr.Facts().Actor(), role); err != nil {
		return "", fmt.Errorf("creating account: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("login", mgr.Facts().Actor().LoginID).
		Str("role", role).
		Msg("account registered")
	return role, nil
}

// EligibleRole resolves the role without creating the account.
func (g *Gate) EligibleRole(ctx context.Context, mgr *engine.Manager) (string, error) {
	if len(g.cfg.Rules) == 0 {
		// no rules configured at all: everyone is eligible
		return g.cfg.DefaultRole, nil
	}

	role, ok, err := mgr.PassedRoleForRules(ctx, g.cfg.Rules)
	if err != nil {
		// fail closed
		log.Ctx(ctx).Warn().Err(err).Msg("registration rule evaluation failed")
		return "", ErrNotAuthorized
	}
	if !ok {
		return "", ErrNotAuthorized
	}
	return role, nil
}
