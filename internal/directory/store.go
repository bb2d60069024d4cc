// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// UserStore manages user persistence.
// Implementations return copies; callers may not mutate stored users.
type UserStore interface {
	// CreateUser stores a new user.
	// Returns ErrEmailTaken if the normalized email is in use and
	// ErrDuplicateID if the ID is.
	CreateUser(ctx context.Context, user *User) error

	// GetUser retrieves a user by ID.
	// Returns ErrNotFound if no user has the given ID.
	GetUser(ctx context.Context, id ulid.ULID) (*User, error)

	// GetUserByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if no user has the given email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// MergePreferences adds or overwrites the given preference keys.
	MergePreferences(ctx context.Context, id ulid.ULID, prefs map[string]any) error

	// AppendInteraction appends an entry to the user's interaction log.
	AppendInteraction(ctx context.Context, id ulid.ULID, entry Interaction) error
}

// ResourceStore manages resource persistence.
type ResourceStore interface {
	// CreateResource stores a new resource.
	// Returns ErrDuplicateID if the ID is in use.
	CreateResource(ctx context.Context, resource *Resource) error

	// GetResource retrieves a resource by ID.
	// Returns ErrNotFound if no resource has the given ID.
	GetResource(ctx context.Context, id ulid.ULID) (*Resource, error)

	// ListResources returns every resource in insertion order.
	ListResources(ctx context.Context) ([]*Resource, error)
}
