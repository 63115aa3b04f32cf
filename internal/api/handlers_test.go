package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skaut/skautis-gate/internal/audit"
	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/content"
	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/facts"
	"github.com/skaut/skautis-gate/internal/registration"
	"github.com/skaut/skautis-gate/internal/rulestore"
	"github.com/skaut/skautis-gate/internal/service"
	"github.com/skaut/skautis-gate/internal/visibility"
)

// newTestServer wires a full gate stack: static identity fixtures, an
// in-memory rule store with one leaders rule set, and a small content
// tree with one gated section.
func newTestServer(t *testing.T) (http.Handler, *audit.InMemoryAuditor, *registration.InMemoryUserStore) {
	t.Helper()

	provider, err := facts.NewStaticProvider(config.ProviderConfig{
		Name: "fixtures",
		Type: facts.StaticType,
		Config: map[string]any{
			"actors": []any{
				map[string]any{
					"login_id":  "leader-login",
					"person_id": 1,
					"roles": []any{
						map[string]any{"role_id": "vedouci", "unit_id": "123.45"},
					},
				},
				map[string]any{
					"login_id":  "member-login",
					"person_id": 2,
				},
			},
			"catalogs": map[string]any{
				"roles": map[string]any{"vedouci": "Leader"},
			},
		},
	})
	if err != nil {
		t.Fatalf("building fixture provider: %v", err)
	}

	tree := core.Node{
		Condition: core.ConditionAnd,
		Rules: []core.Node{{
			ID: "role", Field: "role", Operator: "in", Value: "vedouci~any~",
		}},
	}
	store := rulestore.NewInMemoryStore()
	store.Save(&core.RuleSet{ID: 1, Name: "leaders", Tree: &tree})

	contentTree, err := content.NewTree([]config.ContentNode{
		{ID: 10, Title: "Section", Assignment: &core.RuleAssignment{
			Rules: []core.ContentID{1},
			Mode:  core.VisibilityFull,
		}},
		{ID: 20, Title: "Public"},
	})
	if err != nil {
		t.Fatalf("building content tree: %v", err)
	}

	auditor := audit.NewInMemoryAuditor()
	users := registration.NewInMemoryUserStore()

	gateService := service.NewGateService(provider, store, contentTree, users, auditor,
		config.RegistrationConfig{
			DefaultRole: "subscriber",
			Rules:       []core.RegistrationRule{{Rule: 1, Role: "editor"}},
		}, false)

	return NewServer(gateService, store, auditor).Routes(), auditor, users
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d, want 200", rec.Code)
	}
}

func TestHandleCheck(t *testing.T) {
	handler, auditor, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantPassed bool
	}{
		{
			name:       "Leader Passes",
			body:       `{"actor":{"login_id":"leader-login","person_id":1},"rule_sets":[1]}`,
			wantStatus: http.StatusOK,
			wantPassed: true,
		},
		{
			name:       "Member Fails",
			body:       `{"actor":{"login_id":"member-login","person_id":2},"rule_sets":[1]}`,
			wantStatus: http.StatusOK,
			wantPassed: false,
		},
		{
			name:       "Unknown Actor Fails Closed",
			body:       `{"actor":{"login_id":"stranger","person_id":9},"rule_sets":[1]}`,
			wantStatus: http.StatusOK,
			wantPassed: false,
		},
		{
			name:       "Invalid Body",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/v1/check", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("POST /v1/check = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp service.CheckResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Passed != tt.wantPassed {
				t.Errorf("passed = %v, want %v", resp.Passed, tt.wantPassed)
			}
		})
	}

	// every check left an audit entry
	entries, err := auditor.Find(func(e core.AuditEntry) bool { return e.Action == "rules.check" }, 0)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("audit trail holds %d check entries, want 3", len(entries))
	}
}

func TestHandleVisibility(t *testing.T) {
	handler, _, _ := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		want       visibility.Outcome
	}{
		{
			name:       "Leader Sees Gated Section",
			target:     "/v1/visibility/10",
			body:       `{"actor":{"login_id":"leader-login","person_id":1}}`,
			wantStatus: http.StatusOK,
			want:       visibility.OutcomeVisible,
		},
		{
			name:       "Member Is Unauthorized",
			target:     "/v1/visibility/10",
			body:       `{"actor":{"login_id":"member-login","person_id":2}}`,
			wantStatus: http.StatusOK,
			want:       visibility.OutcomeUnauthorized,
		},
		{
			name:       "Visitor Needs Login",
			target:     "/v1/visibility/10",
			body:       `{"actor":{}}`,
			wantStatus: http.StatusOK,
			want:       visibility.OutcomeLoginRequired,
		},
		{
			name:       "Editor Bypass",
			target:     "/v1/visibility/10",
			body:       `{"actor":{},"can_edit":true}`,
			wantStatus: http.StatusOK,
			want:       visibility.OutcomeVisible,
		},
		{
			name:       "Public Node",
			target:     "/v1/visibility/20",
			body:       `{"actor":{}}`,
			wantStatus: http.StatusOK,
			want:       visibility.OutcomeVisible,
		},
		{
			name:       "Unknown Node",
			target:     "/v1/visibility/99",
			body:       `{"actor":{}}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Invalid ID",
			target:     "/v1/visibility/abc",
			body:       `{"actor":{}}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("POST %s = %d, want %d (body: %s)", tt.target, rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var decision visibility.Decision
			if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if decision.Outcome != tt.want {
				t.Errorf("outcome = %q, want %q", decision.Outcome, tt.want)
			}
		})
	}
}

func TestHandleRegister(t *testing.T) {
	handler, _, users := newTestServer(t)

	t.Run("Leader Gets Editor Role", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/v1/register",
			`{"actor":{"login_id":"leader-login","person_id":1}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST /v1/register = %d, want 200 (body: %s)", rec.Code, rec.Body)
		}
		var resp service.RegisterResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Role != "editor" {
			t.Errorf("role = %q, want editor", resp.Role)
		}
		if len(users.Accounts()) != 1 {
			t.Errorf("accounts = %d, want 1", len(users.Accounts()))
		}
	})

	t.Run("Member Gets Denial With Retry Link", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/v1/register",
			`{"actor":{"login_id":"member-login","person_id":2}}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("POST /v1/register = %d, want 401 (body: %s)", rec.Code, rec.Body)
		}

		var resp struct {
			Error         string `json:"error"`
			CorrelationID string `json:"correlation_id"`
			RetryURL      string `json:"retry_url"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.RetryURL != RegisterRoute {
			t.Errorf("retry_url = %q, want %q", resp.RetryURL, RegisterRoute)
		}
		if resp.CorrelationID == "" {
			t.Error("denial carries no correlation id")
		}
	})
}

func TestHandleRuleSetsAndVariants(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/v1/rules", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/rules = %d, want 200", rec.Code)
	}
	var ruleSets []core.RuleSet
	if err := json.Unmarshal(rec.Body.Bytes(), &ruleSets); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(ruleSets) != 1 || ruleSets[0].Name != "leaders" {
		t.Errorf("rule sets = %+v, want the leaders set", ruleSets)
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/rules/variants?login=leader-login", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/rules/variants = %d, want 200", rec.Code)
	}
	var variants []service.VariantInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &variants); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(variants) != 4 {
		t.Fatalf("len(variants) = %d, want 4", len(variants))
	}
	if variants[0].Kind != "role" || variants[0].Values["vedouci"] != "Leader" {
		t.Errorf("variants[0] = %+v, want the role variant with its catalog", variants[0])
	}
}

func TestHandleExplain(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/v1/explain",
		`{"actor":{"login_id":"leader-login","person_id":1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/explain = %d, want 200 (body: %s)", rec.Code, rec.Body)
	}

	var trace core.EvaluationTrace
	if err := json.Unmarshal(rec.Body.Bytes(), &trace); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if trace.CorrelationID == "" {
		t.Error("trace carries no correlation id")
	}
	if !trace.FinalDecision || trace.GrantedRuleSet != "leaders" {
		t.Errorf("trace decision = %v via %q, want allowed via leaders", trace.FinalDecision, trace.GrantedRuleSet)
	}
	// no rule sets named: all stored ones are traced
	if len(trace.RuleSetResults) != 1 {
		t.Errorf("len(RuleSetResults) = %d, want 1", len(trace.RuleSetResults))
	}
}

func TestHandleAuditDecisions(t *testing.T) {
	handler, _, _ := newTestServer(t)

	// produce a few decisions first
	for i := 0; i < 3; i++ {
		doJSON(t, handler, http.MethodPost, "/v1/check",
			`{"actor":{"login_id":"leader-login","person_id":1},"rule_sets":[1]}`)
	}

	rec := doJSON(t, handler, http.MethodGet, "/v1/audit/decisions?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/audit/decisions = %d, want 200", rec.Code)
	}
	var entries []core.AuditEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("len(entries) = %d, want 2", len(entries))
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/audit/decisions?limit=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET /v1/audit/decisions?limit=bogus = %d, want 400", rec.Code)
	}
}

func TestCorrelationHeaderIsSet(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("response carries no X-Correlation-ID header")
	}
}
