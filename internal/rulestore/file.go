package rulestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/validation"
)

var _ core.RuleStore = (*FileStore)(nil)

// FileStore serves rule sets from YAML documents in a directory, one
// document per rule set. Documents are read and validated once at
// construction; a malformed document is logged and skipped, which the
// evaluation side then treats as a missing rule tree.
type FileStore struct {
	ruleSets map[core.ContentID]*core.RuleSet
}

func NewFileStore(dir string) (*FileStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading rules directory: %w", err)
	}

	store := &FileStore{
		ruleSets: make(map[core.ContentID]*core.RuleSet),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading rule set file %q: %w", path, err)
		}

		var rs core.RuleSet
		if err := yaml.Unmarshal(data, &rs); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping malformed rule set document")
			continue
		}
		if err := validation.ValidateRuleSet(&rs); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping invalid rule set document")
			continue
		}
		if _, dup := store.ruleSets[rs.ID]; dup {
			return nil, fmt.Errorf("rule set ID %d defined more than once (%s)", rs.ID, path)
		}
		store.ruleSets[rs.ID] = &rs
	}

	return store, nil
}

func (s *FileStore) Load(_ context.Context, id core.ContentID) (*core.RuleSet, error) {
	rs, ok := s.ruleSets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", core.ErrMissingRuleTree, id)
	}
	return rs, nil
}

func (s *FileStore) List(_ context.Context) ([]*core.RuleSet, error) {
	out := make([]*core.RuleSet, 0, len(s.ruleSets))
	for _, rs := range s.ruleSets {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
