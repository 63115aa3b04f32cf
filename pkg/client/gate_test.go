package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/skaut/skautis-gate/internal/api"
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

func newGateClient(t *testing.T) *Client {
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
	})
	if err != nil {
		t.Fatalf("building content tree: %v", err)
	}

	auditor := audit.NewInMemoryAuditor()
	gateService := service.NewGateService(provider, store, contentTree,
		registration.NewInMemoryUserStore(), auditor,
		config.RegistrationConfig{
			DefaultRole: "subscriber",
			Rules:       []core.RegistrationRule{{Rule: 1, Role: "editor"}},
		}, false)

	srv := httptest.NewServer(api.NewServer(gateService, store, auditor).Routes())
	t.Cleanup(srv.Close)

	return New(srv.URL)
}

func TestClient_Check(t *testing.T) {
	cli := newGateClient(t)
	ctx := context.Background()

	passed, correlation, err := cli.Check(ctx, core.Actor{LoginID: "leader-login", PersonID: 1}, []core.ContentID{1})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !passed {
		t.Error("Check() = false for the leader, want true")
	}
	if correlation == "" {
		t.Error("Check() returned no correlation id")
	}

	passed, _, err = cli.Check(ctx, core.Actor{LoginID: "stranger"}, []core.ContentID{1})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if passed {
		t.Error("Check() = true for a stranger, want false")
	}
}

func TestClient_Visibility(t *testing.T) {
	cli := newGateClient(t)
	ctx := context.Background()

	decision, _, err := cli.Visibility(ctx, core.Actor{LoginID: "leader-login", PersonID: 1}, 10, false)
	if err != nil {
		t.Fatalf("Visibility() error = %v", err)
	}
	if decision.Outcome != visibility.OutcomeVisible {
		t.Errorf("Visibility().Outcome = %q, want visible", decision.Outcome)
	}

	if _, _, err := cli.Visibility(ctx, core.Actor{}, 99, false); err == nil {
		t.Error("Visibility(99) succeeded for an unknown node")
	}
}

func TestClient_Register(t *testing.T) {
	cli := newGateClient(t)
	ctx := context.Background()

	role, _, err := cli.Register(ctx, core.Actor{LoginID: "leader-login", PersonID: 1})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if role != "editor" {
		t.Errorf("Register() = %q, want editor", role)
	}

	_, _, err = cli.Register(ctx, core.Actor{LoginID: "stranger"})
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Register() error = %v, want an APIError", err)
	}
	if apiErr.RetryURL != api.RegisterRoute {
		t.Errorf("APIError.RetryURL = %q, want %q", apiErr.RetryURL, api.RegisterRoute)
	}
	if apiErr.CorrelationID == "" {
		t.Error("APIError carries no correlation id")
	}
}

func TestClient_RuleSetsAndVariants(t *testing.T) {
	cli := newGateClient(t)
	ctx := context.Background()

	ruleSets, err := cli.RuleSets(ctx)
	if err != nil {
		t.Fatalf("RuleSets() error = %v", err)
	}
	if len(ruleSets) != 1 || ruleSets[0].Name != "leaders" {
		t.Errorf("RuleSets() = %+v, want the leaders set", ruleSets)
	}

	variants, err := cli.Variants(ctx)
	if err != nil {
		t.Fatalf("Variants() error = %v", err)
	}
	if len(variants) != 4 {
		t.Errorf("len(Variants()) = %d, want 4", len(variants))
	}
}

func TestClient_ExplainTrace(t *testing.T) {
	cli := newGateClient(t)

	trace, err := cli.ExplainTrace(context.Background(), core.Actor{LoginID: "leader-login", PersonID: 1}, nil)
	if err != nil {
		t.Fatalf("ExplainTrace() error = %v", err)
	}
	if !trace.FinalDecision || trace.GrantedRuleSet != "leaders" {
		t.Errorf("trace = %v via %q, want allowed via leaders", trace.FinalDecision, trace.GrantedRuleSet)
	}
}

func TestClient_ConnectionFailure(t *testing.T) {
	cli := New("http://127.0.0.1:1")

	if _, _, err := cli.Check(context.Background(), core.Actor{}, nil); err == nil {
		t.Error("Check() succeeded against a dead server")
	}
}

func TestURLBuilder(t *testing.T) {
	c := New("http://gate.example/")

	got := c.url().
		setPath(api.VisibilityRoute).
		setPathParam("id", "42").
		build()
	want := "http://gate.example/v1/visibility/42"
	if got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}
