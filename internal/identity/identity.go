// Package identity persists the signed-in user between runs.
//
// The backend answers a login with the user record and issues no token, so
// the record itself is the credential the client keeps.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skillswap/skillswap/pkg/domain"
)

// ErrNotLoggedIn is returned by Load when no identity has been saved.
var ErrNotLoggedIn = errors.New("not logged in")

// Store reads and writes the identity file at Path.
type Store struct {
	Path string
}

// Load returns the saved user.
func (s Store) Load() (*domain.User, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("identity.Load: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("identity.Load: decode %s: %w", s.Path, err)
	}
	if u.ID == 0 {
		return nil, ErrNotLoggedIn
	}
	return &u, nil
}

// Save writes u, creating the directory with owner-only permissions.
func (s Store) Save(u *domain.User) error {
	if u == nil || u.ID == 0 {
		return errors.New("identity.Save: user has no id")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("identity.Save: create dir: %w", err)
	}
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("identity.Save: encode: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("identity.Save: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("identity.Save: %w", err)
	}
	return nil
}

// Clear deletes the identity. It reports whether a file was removed.
func (s Store) Clear() (bool, error) {
	if err := os.Remove(s.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("identity.Clear: %w", err)
	}
	return true, nil
}
