// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// Store persists one opaque credential string in a file.
type Store struct {
	path string
}

// NewStore returns a store rooted at the default location,
// ~/.tutor/credential.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(home, ".tutor", "credential")), nil
}

// NewStoreAt returns a store backed by the given file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Get retrieves the credential. The second return value is false when no
// credential has been configured.
func (s *Store) Get() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	cred := strings.TrimSpace(string(data))
	if cred == "" {
		return "", false
	}
	return cred, true
}

// Set writes the credential with restricted permissions. The enclosing
// directory is created with mode 0700 if needed.
func (s *Store) Set(credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return fmt.Errorf("credential must not be empty")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(credential), 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an absent credential is not
// an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}
