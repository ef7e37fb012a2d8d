// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "encoding/json"

// =============================================================================
// USER TYPE
// =============================================================================

// User is the authenticated user's profile as returned by
// authentication_app/user_profile/. The server attaches fields beyond the
// ones named here; they are preserved in Extra so a profile round-trip does
// not silently drop them.
type User struct {
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	AccountType           string `json:"account_type"`
	SubscriptionStatus    string `json:"subscription_status"`
	SubscriptionExpiresOn string `json:"subscription_expires_on"`

	// Extra holds unrecognized profile fields.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownUserFields are the profile fields with dedicated struct fields.
var knownUserFields = map[string]bool{
	"name":                    true,
	"email":                   true,
	"account_type":            true,
	"subscription_status":     true,
	"subscription_expires_on": true,
}

// UnmarshalJSON decodes the named fields and collects everything else
// into Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if knownUserFields[k] {
			delete(raw, k)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}

	*u = User(a)
	u.Extra = raw
	return nil
}

// =============================================================================
// AUTH PAYLOADS
// =============================================================================

// SignUpRequest registers a new account.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest authenticates an existing account.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer credential issued on sign-in or sign-up.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
}

// UpdateProfileRequest changes profile fields. Only the name is mutable
// through the client.
type UpdateProfileRequest struct {
	Name string `json:"name,omitempty"`
}
