package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/skaut/skautis-gate/internal/core"
)

type Config struct {
	// Debug surfaces operator/value diagnostics that production mode
	// swallows as "rule not satisfied".
	Debug bool `yaml:"debug"`

	// Provider configures the identity facts provider.
	Provider ProviderConfig `yaml:"provider"`

	// RulesDir is the directory holding the stored rule-set documents.
	RulesDir string `yaml:"rules_dir"`

	// Content describes the gated content hierarchy.
	Content []ContentNode `yaml:"content"`

	// Registration configures the registration gate.
	Registration RegistrationConfig `yaml:"registration"`

	// Audit configures the decision audit trail.
	Audit AuditConfig `yaml:"audit"`
}

// ProviderConfig holds configuration for an identity facts provider.
type ProviderConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`    // e.g., "skautis", "static"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

// ContentNode is one node of the content hierarchy, with its optional
// rule assignment.
type ContentNode struct {
	ID         core.ContentID       `yaml:"id"`
	Parent     core.ContentID       `yaml:"parent"`
	Title      string               `yaml:"title"`
	Assignment *core.RuleAssignment `yaml:"assignment"`
}

// RegistrationConfig holds the ordered registration rules and the role
// handed out when no rules are configured at all.
type RegistrationConfig struct {
	DefaultRole string                  `yaml:"default_role"`
	Rules       []core.RegistrationRule `yaml:"rules"`
}

// AuditConfig holds configuration for the decision audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g., "file", "memory"
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Provider.Name == "" {
		return fmt.Errorf("provider has empty name")
	}
	if c.Provider.Type == "" {
		return fmt.Errorf("provider %q has empty type", c.Provider.Name)
	}

	seen := make(map[core.ContentID]struct{})
	for idx, node := range c.Content {
		if node.ID == 0 {
			return fmt.Errorf("content node at index %d has no id", idx)
		}
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("content node id %d is not unique", node.ID)
		}
		seen[node.ID] = struct{}{}

		if a := node.Assignment; a != nil {
			switch a.Mode {
			case core.VisibilityFull, core.VisibilityContent:
			case "":
				a.Mode = core.VisibilityFull
			default:
				return fmt.Errorf("content node %d has unknown visibility mode %q", node.ID, a.Mode)
			}
		}
	}
	for _, node := range c.Content {
		if node.Parent != 0 {
			if _, ok := seen[node.Parent]; !ok {
				return fmt.Errorf("content node %d references unknown parent %d", node.ID, node.Parent)
			}
		}
	}

	if len(c.Registration.Rules) == 0 && c.Registration.DefaultRole == "" {
		return fmt.Errorf("registration has neither rules nor a default_role")
	}
	for idx, r := range c.Registration.Rules {
		if r.Rule == 0 {
			return fmt.Errorf("registration rule at index %d has no rule reference", idx)
		}
		if r.Role == "" {
			return fmt.Errorf("registration rule at index %d has no role", idx)
		}
	}

	return nil
}
