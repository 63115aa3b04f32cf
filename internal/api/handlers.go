package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/skaut/skautis-gate/internal/api/presenter"
	"github.com/skaut/skautis-gate/internal/buildinfo"
	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/registration"
	"github.com/skaut/skautis-gate/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req service.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		presenter.Error(w, r, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.gateService.CheckRules(r.Context(), req)
	if err != nil {
		presenter.Err(w, r, err, "check failed")
		return
	}
	presenter.JSON(w, r, resp, http.StatusOK)
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		presenter.Error(w, r, "invalid content id", http.StatusBadRequest)
		return
	}

	var req service.VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		presenter.Error(w, r, "invalid request body", http.StatusBadRequest)
		return
	}
	req.ContentID = core.ContentID(id)

	decision, err := s.gateService.ResolveVisibility(r.Context(), req)
	if err != nil {
		presenter.Err(w, r, err, "visibility resolution failed")
		return
	}
	presenter.JSON(w, r, decision, http.StatusOK)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		presenter.Error(w, r, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.gateService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, registration.ErrNotAuthorized) {
			presenter.ErrorWithRetry(w, r,
				"You are not authorized to register. Sign in with a different skautIS account and try again.",
				RegisterRoute, http.StatusUnauthorized)
			return
		}
		presenter.Err(w, r, err, "registration failed")
		return
	}
	presenter.JSON(w, r, resp, http.StatusOK)
}

func (s *Server) handleRuleSets(w http.ResponseWriter, r *http.Request) {
	ruleSets, err := s.store.List(r.Context())
	if err != nil {
		presenter.Err(w, r, err, "listing rule sets failed")
		return
	}
	presenter.JSON(w, r, ruleSets, http.StatusOK)
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	actor := core.Actor{LoginID: r.URL.Query().Get("login")}

	variants, err := s.gateService.Variants(r.Context(), actor)
	if err != nil {
		presenter.Err(w, r, err, "listing variants failed")
		return
	}
	presenter.JSON(w, r, variants, http.StatusOK)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req service.ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		presenter.Error(w, r, "invalid request body", http.StatusBadRequest)
		return
	}

	trace, err := s.gateService.ExplainTrace(r.Context(), req)
	if err != nil {
		presenter.Err(w, r, err, "explain failed")
		return
	}
	presenter.JSON(w, r, trace, http.StatusOK)
}

func (s *Server) handleAuditDecisions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			presenter.Error(w, r, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := s.auditor.Find(func(core.AuditEntry) bool { return true }, limit)
	if err != nil {
		presenter.Err(w, r, err, "listing audit entries failed")
		return
	}
	presenter.JSON(w, r, entries, http.StatusOK)
}
