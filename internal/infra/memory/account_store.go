package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"brain-battle/internal/domain"
)

// AccountStore is an in-memory implementation of app.AccountStore.
// Passwords are kept and compared in plain text; accounts live as long as the process.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]domain.Account),
	}
}

func (s *AccountStore) Signup(_ context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[username]; ok {
		return domain.ErrDuplicateUser
	}
	s.accounts[username] = domain.Account{Username: username, Password: password}
	return nil
}

func (s *AccountStore) Authenticate(_ context.Context, username, password string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[username]
	if !ok || account.Password != password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Len reports the number of registered accounts.
func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
