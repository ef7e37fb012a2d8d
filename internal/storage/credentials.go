// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local persistence collaborator for the
// chartwright client: a string key-value store backed by a JSON file under
// the user's home directory. The session store keeps the bearer token here
// under the "token" key.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/clintechso/chartwright-tui/internal/util"
)

// credentialsFile is the file name inside the base directory.
const credentialsFile = "credentials.json"

// CredentialStore is a file-backed key-value store. All operations are safe
// for concurrent use; every Set and Remove is written through to disk
// synchronously.
type CredentialStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewCredentialStore opens (or creates) the store under ~/.chartwright/.
func NewCredentialStore() (*CredentialStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewCredentialStoreWithDir(filepath.Join(homeDir, ".chartwright"))
}

// NewCredentialStoreWithDir opens (or creates) the store in a custom
// directory. Used by tests.
func NewCredentialStoreWithDir(baseDir string) (*CredentialStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}

	s := &CredentialStore{
		path:   filepath.Join(baseDir, credentialsFile),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		// A corrupted credentials file means the user re-authenticates.
		// Starting empty beats refusing to start at all.
		s.values = make(map[string]string)
	}
	return s, nil
}

// Get returns the value for key. The second return is false when the key
// is absent.
func (s *CredentialStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and writes the file through to disk.
func (s *CredentialStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// Remove deletes key and writes the file through to disk. Removing an
// absent key is not an error.
func (s *CredentialStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.flushLocked()
}

// flushLocked persists the current values. Caller must hold s.mu.
// Credentials are secrets, so the file is 0600.
func (s *CredentialStore) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0600)
}
