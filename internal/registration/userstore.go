package registration

import (
	"context"
	"sync"

	"github.com/skaut/skautis-gate/internal/core"
)

var _ core.UserStore = (*InMemoryUserStore)(nil)

// Account is one created account record.
type Account struct {
	Actor core.Actor `json:"actor"`
	Role  string     `json:"role"`
}

// InMemoryUserStore records created accounts in memory. It stands in
// for the external user store, which owns real account creation.
type InMemoryUserStore struct {
	mu       sync.Mutex
	accounts []Account
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{}
}

func (s *InMemoryUserStore) CreateAccount(_ context.Context, actor core.Actor, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = append(s.accounts, Account{Actor: actor, Role: role})
	return nil
}

// Accounts returns a copy of all created accounts.
func (s *InMemoryUserStore) Accounts() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}
