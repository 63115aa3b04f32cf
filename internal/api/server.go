package api

import (
	"net/http"

	"github.com/skaut/skautis-gate/internal/api/middleware"
	"github.com/skaut/skautis-gate/internal/audit"
	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/service"
)

type Server struct {
	gateService *service.GateService
	store       core.RuleStore
	auditor     core.Auditor
}

func NewServer(gateService *service.GateService, store core.RuleStore, auditor core.Auditor) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &Server{
		gateService: gateService,
		store:       store,
		auditor:     auditor,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// gate routes
	mux.HandleFunc("POST "+CheckRoute, s.handleCheck)
	mux.HandleFunc("POST "+VisibilityRoute, s.handleVisibility)
	mux.HandleFunc("POST "+RegisterRoute, s.handleRegister)

	// authoring / debugging routes
	mux.HandleFunc("GET "+RuleSetsRoute, s.handleRuleSets)
	mux.HandleFunc("GET "+VariantsRoute, s.handleVariants)
	mux.HandleFunc("POST "+ExplainRoute, s.handleExplain)
	mux.HandleFunc("GET "+AuditDecisionsRoute, s.handleAuditDecisions)

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
