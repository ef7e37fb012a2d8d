// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated session: the bearer token and the
// user profile. It is pure state storage with no network access; the token
// is mirrored synchronously into a persistence collaborator so a restart
// resumes the session.
package session

import (
	"sync"

	"github.com/clintechso/chartwright-tui/internal/model"
)

// tokenKey is the persistence key for the bearer token.
const tokenKey = "token"

// Persistence is the narrow contract the session store needs from its
// storage collaborator.
type Persistence interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Store owns the session state. The user profile is never populated while
// the token is absent: fetching a profile requires a token, and Logout
// clears both together.
type Store struct {
	mu    sync.Mutex
	token string
	user  *model.User
	creds Persistence
}

// NewStore creates a session store, initializing the token from persistence
// if one was saved by a previous run.
func NewStore(creds Persistence) *Store {
	s := &Store{creds: creds}
	if creds != nil {
		if tok, ok := creds.Get(tokenKey); ok {
			s.token = tok
		}
	}
	return s
}

// Token returns the current bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// HasToken reports whether a bearer token is present.
func (s *Store) HasToken() bool {
	return s.Token() != ""
}

// SetToken stores the token in memory and writes it through to persistence.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.creds != nil {
		// Persistence failures leave the in-memory session usable; the
		// worst case is re-authenticating after a restart.
		_ = s.creds.Set(tokenKey, token)
	}
}

// User returns the held profile, or nil if none has been fetched.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetUser replaces the held profile wholesale. There is no partial merge;
// callers fetch the full profile and hand it over.
func (s *Store) SetUser(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Logout clears the token and profile in memory and in persistence. It is
// a purely local operation: the server session is not invalidated.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	if s.creds != nil {
		_ = s.creds.Remove(tokenKey)
	}
}
