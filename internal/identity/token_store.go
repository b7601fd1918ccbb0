package identity

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// TokenStore persists the bearer credential between runs, the client-side
// equivalent of the browser's local storage slot. It also serves as the
// token source the REST client reads on every request.
type TokenStore struct {
	path string

	mu     sync.RWMutex
	cached string
}

// NewTokenStore creates a store backed by the given file path and primes the
// cache from disk when the file exists.
func NewTokenStore(path string) (*TokenStore, error) {
	s := &TokenStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	s.cached = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the cached credential, empty when logged out.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached
}

// Save persists a new credential.
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	s.cached = token
	return nil
}

// Clear drops the credential from cache and disk. A missing file is not an
// error; logout must always succeed locally.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
