package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skaut/skautis-gate/internal/api/middleware"
	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/engine"
	"github.com/skaut/skautis-gate/internal/facts"
	"github.com/skaut/skautis-gate/internal/registration"
	"github.com/skaut/skautis-gate/internal/rules"
	"github.com/skaut/skautis-gate/internal/visibility"
)

// GateService is the main service behind the gate endpoints. It holds
// the long-lived collaborators; everything actor-bound (facts cache,
// registry, manager) is built fresh per request so no identity data
// leaks across actors.
type GateService struct {
	provider core.FactsProvider
	store    core.RuleStore
	resolver *visibility.Resolver
	gate     *registration.Gate
	auditor  core.Auditor
	debug    bool
}

func NewGateService(
	provider core.FactsProvider,
	store core.RuleStore,
	tree core.ContentTree,
	users core.UserStore,
	auditor core.Auditor,
	regCfg config.RegistrationConfig,
	debug bool,
) *GateService {
	return &GateService{
		provider: provider,
		store:    store,
		resolver: visibility.NewResolver(tree),
		gate:     registration.NewGate(users, regCfg),
		auditor:  auditor,
		debug:    debug,
	}
}

// managerFor builds the request-scoped evaluation stack for one actor.
func (s *GateService) managerFor(actor core.Actor) *engine.Manager {
	cache := facts.NewCache(s.provider, actor)
	registry := rules.NewRegistry(cache)
	return engine.NewManager(registry, s.store, cache, s.debug)
}

// CheckRules is the single entry point used by registration, shortcode
// and visibility callers alike: does the actor pass any of these rule
// sets.
func (s *GateService) CheckRules(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	logger := log.Ctx(ctx)
	reqID := middleware.CorrelationCtx(ctx)

	auditEntry := core.AuditEntry{
		ID:       reqID,
		Time:     time.Now(),
		Action:   "rules.check",
		Actor:    req.Actor,
		RuleSets: req.RuleSets,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for rules check")
		}
	}()

	mgr := s.managerFor(req.Actor)
	passed, err := mgr.UserPassedRules(ctx, req.RuleSets)
	if err != nil {
		// fail closed: the caller gets a definite "did not pass"
		logger.Warn().Err(err).Msg("rule evaluation failed")
		auditEntry.Error = err.Error()
		return &CheckResponse{Passed: false}, nil
	}

	auditEntry.Passed = passed
	return &CheckResponse{Passed: passed}, nil
}

// ResolveVisibility decides how one content node is shown to the actor.
func (s *GateService) ResolveVisibility(ctx context.Context, req VisibilityRequest) (*visibility.Decision, error) {
	logger := log.Ctx(ctx)
	reqID := middleware.CorrelationCtx(ctx)

	auditEntry := core.AuditEntry{
		ID:        reqID,
		Time:      time.Now(),
		Action:    "visibility.resolve",
		Actor:     req.Actor,
		ContentID: req.ContentID,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for visibility decision")
		}
	}()

	mgr := s.managerFor(req.Actor)
	decision, err := s.resolver.Resolve(ctx, req.ContentID, mgr, req.CanEdit)
	if err != nil {
		auditEntry.Error = err.Error()
		return nil, httpError(http.StatusNotFound, err)
	}

	auditEntry.RuleSets = decision.RuleSets
	auditEntry.Passed = decision.Outcome == visibility.OutcomeVisible
	auditEntry.Outcome = string(decision.Outcome)
	return &decision, nil
}

// Register runs the registration gate for the actor.
func (s *GateService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	logger := log.Ctx(ctx)
	reqID := middleware.CorrelationCtx(ctx)

	auditEntry := core.AuditEntry{
		ID:     reqID,
		Time:   time.Now(),
		Action: "registration.register",
		Actor:  req.Actor,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for registration")
		}
	}()

	mgr := s.managerFor(req.Actor)
	role, err := s.gate.Register(ctx, mgr)
	if err != nil {
		auditEntry.Error = err.Error()
		if errors.Is(err, registration.ErrNotAuthorized) {
			return nil, httpError(http.StatusUnauthorized, err)
		}
		return nil, httpError(http.StatusInternalServerError, err)
	}

	auditEntry.Passed = true
	auditEntry.Outcome = role
	return &RegisterResponse{Role: role}, nil
}

// Variants returns the rule-variant enumeration for the authoring
// surface, with the selectable value catalogs resolved.
func (s *GateService) Variants(ctx context.Context, actor core.Actor) ([]VariantInfo, error) {
	cache := facts.NewCache(s.provider, actor)
	registry := rules.NewRegistry(cache)

	var out []VariantInfo
	for _, d := range registry.Variants() {
		info := VariantInfo{
			Kind:  string(d.Kind),
			Label: d.Label,
			Shape: string(d.Shape),
		}
		for _, op := range d.Operators {
			info.Operators = append(info.Operators, string(op))
		}
		values, err := registry.AvailableValues(ctx, d.Kind)
		if err != nil {
			// the enumeration itself must not depend on the identity
			// service being reachable
			log.Ctx(ctx).Warn().Err(err).Str("kind", string(d.Kind)).Msg("catalog unavailable")
		} else {
			info.Values = values
		}
		out = append(out, info)
	}
	return out, nil
}
