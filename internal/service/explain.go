package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/skaut/skautis-gate/internal/api/middleware"
	"github.com/skaut/skautis-gate/internal/core"
)

// ExplainTrace evaluates the requested rule sets (all stored ones when
// none are named) and returns the full trace, without short-circuiting.
func (s *GateService) ExplainTrace(ctx context.Context, req ExplainRequest) (*core.EvaluationTrace, error) {
	logger := log.Ctx(ctx)
	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("login", req.Actor.LoginID)
	})

	ids := req.RuleSets
	if len(ids) == 0 {
		stored, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, rs := range stored {
			ids = append(ids, rs.ID)
		}
	}

	mgr := s.managerFor(req.Actor)
	trace := mgr.Trace(ctx, ids)
	trace.CorrelationID = middleware.CorrelationCtx(ctx)

	return &trace, nil
}
