package rulestore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/skaut/skautis-gate/internal/core"
)

var _ core.RuleStore = (*InMemoryStore)(nil)

// InMemoryStore holds rule sets in memory. Used by tests and as the
// target of future rule authoring over the API.
type InMemoryStore struct {
	mu       sync.RWMutex
	ruleSets map[core.ContentID]*core.RuleSet
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		ruleSets: make(map[core.ContentID]*core.RuleSet),
	}
}

func (s *InMemoryStore) Save(rs *core.RuleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ruleSets[rs.ID] = rs
}

func (s *InMemoryStore) Load(_ context.Context, id core.ContentID) (*core.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rs, ok := s.ruleSets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", core.ErrMissingRuleTree, id)
	}
	return rs, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*core.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.RuleSet, 0, len(s.ruleSets))
	for _, rs := range s.ruleSets {
		out = append(out, rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
