package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/skaut/skautis-gate/internal/api/middleware"
	"github.com/skaut/skautis-gate/internal/audit"
	"github.com/skaut/skautis-gate/internal/config"
	"github.com/skaut/skautis-gate/internal/core"
)

const SkautisType = "skautis"

const appIDHeader = "X-SkautIS-App-Id"

var _ core.FactsProvider = (*SkautisProvider)(nil)

// SkautisProvider fetches identity facts from a skautIS bridge over
// plain JSON. The bridge wraps the upstream SOAP API; this client
// treats it as an opaque data source and never interprets anything
// beyond the response shapes below.
type SkautisProvider struct {
	name       string
	baseURL    string
	appID      string
	httpClient *http.Client
}

type skautisConfig struct {
	Server string `mapstructure:"server"`
	AppID  string `mapstructure:"app_id"`
}

// NewSkautisProvider builds a SkautisProvider from the inline provider
// config.
func NewSkautisProvider(cfg config.ProviderConfig) (*SkautisProvider, error) {
	var conf skautisConfig
	if err := mapstructure.Decode(cfg.Config, &conf); err != nil {
		return nil, fmt.Errorf("decoding config for %s provider %q: %w", SkautisType, cfg.Name, err)
	}
	if conf.Server == "" {
		return nil, fmt.Errorf("server cannot be empty for %s provider %q", SkautisType, cfg.Name)
	}
	if conf.AppID == "" {
		return nil, fmt.Errorf("app_id cannot be empty for %s provider %q", SkautisType, cfg.Name)
	}
	return &SkautisProvider{
		name:       cfg.Name,
		baseURL:    strings.TrimRight(conf.Server, "/"),
		appID:      conf.AppID,
		httpClient: http.DefaultClient,
	}, nil
}

func (p *SkautisProvider) Name() string {
	return p.name
}

func (p *SkautisProvider) IsAuthenticated(ctx context.Context, actor core.Actor) bool {
	if actor.LoginID == "" {
		return false
	}
	var out struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := p.get(ctx, "/v1/logins/"+url.PathEscape(actor.LoginID), &out); err != nil {
		// fail closed: an unreachable identity service is "not logged in"
		return false
	}
	return out.Authenticated
}

func (p *SkautisProvider) ActiveRoles(ctx context.Context, loginID string) ([]core.RoleAssignment, error) {
	var out struct {
		Roles []core.RoleAssignment `json:"roles"`
	}
	if err := p.get(ctx, "/v1/logins/"+url.PathEscape(loginID)+"/roles", &out); err != nil {
		return nil, err
	}
	return out.Roles, nil
}

func (p *SkautisProvider) Qualifications(ctx context.Context, personID int64) ([]string, error) {
	var out struct {
		Qualifications []string `json:"qualifications"`
	}
	if err := p.get(ctx, "/v1/persons/"+strconv.FormatInt(personID, 10)+"/qualifications", &out); err != nil {
		return nil, err
	}
	return out.Qualifications, nil
}

func (p *SkautisProvider) Memberships(ctx context.Context, personID int64) ([]core.Membership, error) {
	var out struct {
		Memberships []core.Membership `json:"memberships"`
	}
	if err := p.get(ctx, "/v1/persons/"+strconv.FormatInt(personID, 10)+"/memberships", &out); err != nil {
		return nil, err
	}
	return out.Memberships, nil
}

func (p *SkautisProvider) Functions(ctx context.Context, personID int64) ([]core.FunctionAssignment, error) {
	var out struct {
		Functions []core.FunctionAssignment `json:"functions"`
	}
	if err := p.get(ctx, "/v1/persons/"+strconv.FormatInt(personID, 10)+"/functions", &out); err != nil {
		return nil, err
	}
	return out.Functions, nil
}

func (p *SkautisProvider) UnitRegistrationNumber(ctx context.Context, unitID string) (string, error) {
	var out struct {
		RegistrationNumber string `json:"registration_number"`
	}
	if err := p.get(ctx, "/v1/units/"+url.PathEscape(unitID)+"/registration-number", &out); err != nil {
		return "", err
	}
	return out.RegistrationNumber, nil
}

func (p *SkautisProvider) Catalog(ctx context.Context, name core.CatalogName) (map[string]string, error) {
	var out struct {
		Values map[string]string `json:"values"`
	}
	if err := p.get(ctx, "/v1/catalogs/"+url.PathEscape(string(name)), &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

func (p *SkautisProvider) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(appIDHeader, p.appID)

	// inject audit user-agent
	correlationID := middleware.CorrelationCtx(ctx)
	req.Header.Set("User-Agent", audit.CreateUserAgent(correlationID, p.name))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrIdentityUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d for %s", core.ErrIdentityUnavailable, resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", core.ErrIdentityUnavailable, err)
	}
	return nil
}
