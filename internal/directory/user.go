// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/panicpal/panicpal/internal/credential"
)

// User is a registered account. ID, Name, Email and CreatedAt are set at
// registration and never change.
type User struct {
	ID        ulid.ULID
	Name      string
	Email     string
	CreatedAt time.Time

	credential   credential.Credential
	preferences  map[string]any
	interactions []Interaction
}

// Interaction is one entry in a user's support history.
type Interaction struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Details   string    `json:"details,omitempty"`
}

// NewUser creates a User with a fresh ID, empty preferences and an empty
// interaction log. Name and email are stored as given.
func NewUser(name, email string, cred credential.Credential) (*User, error) {
	if cred.IsZero() {
		return nil, oops.Code(CodeInvalidCredential).Errorf("credential salt and digest are required")
	}
	return &User{
		ID:          NewID(),
		Name:        name,
		Email:       email,
		CreatedAt:   time.Now().UTC(),
		credential:  cred.Clone(),
		preferences: map[string]any{},
	}, nil
}

// Credential returns a copy of the user's stored credential.
func (u *User) Credential() credential.Credential {
	return u.credential.Clone()
}

// Preferences returns a copy of the user's preferences. Nested
// map[string]any and []any values are copied too.
func (u *User) Preferences() map[string]any {
	if u.preferences == nil {
		return map[string]any{}
	}
	return copyPreferences(u.preferences)
}

// Interactions returns a copy of the interaction log, oldest first.
func (u *User) Interactions() []Interaction {
	return slices.Clone(u.interactions)
}

// clone returns a copy sharing no mutable state with u.
func (u *User) clone() *User {
	c := *u
	c.credential = u.credential.Clone()
	c.preferences = u.Preferences()
	c.interactions = u.Interactions()
	return &c
}

// mergePreferences adds new keys and overwrites existing ones.
func (u *User) mergePreferences(prefs map[string]any) {
	if u.preferences == nil {
		u.preferences = make(map[string]any, len(prefs))
	}
	maps.Copy(u.preferences, copyPreferences(prefs))
}

func copyPreferences(prefs map[string]any) map[string]any {
	if prefs == nil {
		return nil
	}
	out := make(map[string]any, len(prefs))
	for k, v := range prefs {
		out[k] = copyPreferenceValue(v)
	}
	return out
}

// copyPreferenceValue copies the container types JSON and YAML decoders
// produce. Other values are stored as given and must not be mutated by the
// caller afterwards.
func copyPreferenceValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyPreferences(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = copyPreferenceValue(e)
		}
		return out
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}

func (u *User) appendInteraction(entry Interaction) {
	u.interactions = append(u.interactions, entry)
}

// UserSnapshot is the complete state of a User, for stores that persist
// users outside this package.
type UserSnapshot struct {
	ID           ulid.ULID             `json:"id"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	CreatedAt    time.Time             `json:"created_at"`
	Credential   credential.Credential `json:"credential"`
	Preferences  map[string]any        `json:"preferences"`
	Interactions []Interaction         `json:"interactions"`
}

// Snapshot returns the user's complete state.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
		Credential:   u.Credential(),
		Preferences:  u.Preferences(),
		Interactions: u.Interactions(),
	}
}

// RestoreUser rebuilds a User from a snapshot.
func RestoreUser(s UserSnapshot) (*User, error) {
	if s.ID == (ulid.ULID{}) {
		return nil, oops.Code(CodeInvalidID).Errorf("user id is required")
	}
	if s.Credential.IsZero() {
		return nil, oops.Code(CodeInvalidCredential).
			With("user_id", s.ID.String()).
			Errorf("credential salt and digest are required")
	}
	u := &User{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		CreatedAt:    s.CreatedAt,
		credential:   s.Credential.Clone(),
		preferences:  copyPreferences(s.Preferences),
		interactions: slices.Clone(s.Interactions),
	}
	if u.preferences == nil {
		u.preferences = map[string]any{}
	}
	return u, nil
}

// NormalizeEmail returns the lookup key for an email: trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
