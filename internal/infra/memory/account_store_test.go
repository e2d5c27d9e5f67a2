package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"brain-battle/internal/domain"
)

func TestAccountStoreSignupAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()

	if err := store.Signup(ctx, "alice", "secret"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := store.Signup(ctx, "alice", "other"); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate user, got %v", err)
	}

	if err := store.Authenticate(ctx, "alice", "secret"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := store.Authenticate(ctx, "alice", "other"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if err := store.Authenticate(ctx, "bob", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestAccountStoreRejectsEmptyFields(t *testing.T) {
	store := NewAccountStore()
	for _, c := range [][2]string{{"", "pw"}, {"bob", ""}, {"  ", "pw"}} {
		if err := store.Signup(context.Background(), c[0], c[1]); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("signup(%q, %q): expected invalid input, got %v", c[0], c[1], err)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("expected no accounts, got %d", store.Len())
	}
}

func TestAccountStoreConcurrentSignupKeepsUsernamesUnique(t *testing.T) {
	store := NewAccountStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Signup(context.Background(), "carol", "pw"); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if created != 1 || store.Len() != 1 {
		t.Fatalf("expected exactly one signup to win, got created=%d len=%d", created, store.Len())
	}
}
