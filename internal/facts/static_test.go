package facts

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
)

func staticFixtureConfig() config.ProviderConfig {
	return config.ProviderConfig{
		Name: "fixtures",
		Type: StaticType,
		Config: map[string]any{
			"actors": []any{
				map[string]any{
					"login_id":  "abc",
					"person_id": 7,
					"roles": []any{
						map[string]any{"role_id": "vedouci", "unit_id": "123.45"},
					},
					"qualifications": []any{"zdravotnik"},
				},
			},
			"units": map[string]any{"u-1": "123.45"},
			"catalogs": map[string]any{
				"roles": map[string]any{"vedouci": "Leader"},
			},
		},
	}
}

func TestStaticProvider(t *testing.T) {
	provider, err := NewStaticProvider(staticFixtureConfig())
	if err != nil {
		t.Fatalf("NewStaticProvider() error = %v", err)
	}
	ctx := context.Background()

	if !provider.IsAuthenticated(ctx, core.Actor{LoginID: "abc"}) {
		t.Error("IsAuthenticated(abc) = false, want true")
	}
	if provider.IsAuthenticated(ctx, core.Actor{LoginID: "stranger"}) {
		t.Error("IsAuthenticated(stranger) = true, want false")
	}

	roles, err := provider.ActiveRoles(ctx, "abc")
	if err != nil {
		t.Fatalf("ActiveRoles() error = %v", err)
	}
	want := []core.RoleAssignment{{RoleID: "vedouci", UnitID: "123.45"}}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("ActiveRoles mismatch (-want +got):\n%s", diff)
	}

	quals, err := provider.Qualifications(ctx, 7)
	if err != nil {
		t.Fatalf("Qualifications() error = %v", err)
	}
	if len(quals) != 1 || quals[0] != "zdravotnik" {
		t.Errorf("Qualifications() = %v, want [zdravotnik]", quals)
	}

	number, err := provider.UnitRegistrationNumber(ctx, "u-1")
	if err != nil {
		t.Fatalf("UnitRegistrationNumber() error = %v", err)
	}
	if number != "123.45" {
		t.Errorf("UnitRegistrationNumber() = %q, want 123.45", number)
	}

	catalog, err := provider.Catalog(ctx, core.CatalogRoles)
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if catalog["vedouci"] != "Leader" {
		t.Errorf("Catalog(roles) = %v, want vedouci -> Leader", catalog)
	}

	// catalogs without fixture data are empty, not an error
	empty, err := provider.Catalog(ctx, core.CatalogFunctions)
	if err != nil {
		t.Fatalf("Catalog(functions) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Catalog(functions) = %v, want empty", empty)
	}
}

func TestStaticProvider_UnknownActor(t *testing.T) {
	provider, err := NewStaticProvider(staticFixtureConfig())
	if err != nil {
		t.Fatalf("NewStaticProvider() error = %v", err)
	}
	ctx := context.Background()

	if _, err := provider.ActiveRoles(ctx, "stranger"); !errors.Is(err, core.ErrIdentityUnavailable) {
		t.Errorf("ActiveRoles(stranger) error = %v, want ErrIdentityUnavailable", err)
	}
	if _, err := provider.Qualifications(ctx, 99); !errors.Is(err, core.ErrIdentityUnavailable) {
		t.Errorf("Qualifications(99) error = %v, want ErrIdentityUnavailable", err)
	}
	if _, err := provider.UnitRegistrationNumber(ctx, "u-99"); !errors.Is(err, core.ErrIdentityUnavailable) {
		t.Errorf("UnitRegistrationNumber(u-99) error = %v, want ErrIdentityUnavailable", err)
	}
}

func TestStaticProvider_RejectsActorWithoutLogin(t *testing.T) {
	cfg := config.ProviderConfig{
		Name: "fixtures",
		Type: StaticType,
		Config: map[string]any{
			"actors": []any{map[string]any{"person_id": 7}},
		},
	}
	if _, err := NewStaticProvider(cfg); err == nil {
		t.Fatal("NewStaticProvider() accepted an actor without login_id")
	}
}

func TestBuildProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ProviderConfig
		wantErr bool
	}{
		{name: "Static", cfg: staticFixtureConfig()},
		{
			name: "Skautis",
			cfg: config.ProviderConfig{
				Name: "prod",
				Type: SkautisType,
				Config: map[string]any{
					"server": "https://is.skaut.cz",
					"app_id": "demo",
				},
			},
		},
		{
			name:    "Unknown Type",
			cfg:     config.ProviderConfig{Name: "p", Type: "ldap"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := BuildProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("BuildProvider() accepted an invalid config")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildProvider() error = %v", err)
			}
			if provider.Name() != tt.cfg.Name {
				t.Errorf("Name() = %q, want %q", provider.Name(), tt.cfg.Name)
			}
		})
	}
}
