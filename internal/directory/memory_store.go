// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MemoryStore is an in-memory UserStore and ResourceStore. State lives for
// the lifetime of the process. Safe for concurrent use.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[ulid.ULID]*User
	emails        map[string]ulid.ULID
	resources     map[ulid.ULID]*Resource
	resourceOrder []ulid.ULID
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[ulid.ULID]*User),
		emails:    make(map[string]ulid.ULID),
		resources: make(map[ulid.ULID]*Resource),
	}
}

// CreateUser stores a copy of user.
func (s *MemoryStore) CreateUser(_ context.Context, user *User) error {
	key := NormalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return oops.Code(CodeDuplicateID).
			With("user_id", user.ID.String()).
			Wrap(ErrDuplicateID)
	}
	if _, ok := s.emails[key]; ok {
		return oops.Code(CodeEmailTaken).Wrap(ErrEmailTaken)
	}

	s.users[user.ID] = user.clone()
	s.emails[key] = user.ID
	return nil
}

// GetUser retrieves a copy of the user with the given ID.
func (s *MemoryStore) GetUser(_ context.Context, id ulid.ULID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, userNotFound(id)
	}
	return user.clone(), nil
}

// GetUserByEmail retrieves a copy of the user registered with email.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[NormalizeEmail(email)]
	if !ok {
		return nil, oops.Code(CodeUserNotFound).Wrap(ErrNotFound)
	}
	return s.users[id].clone(), nil
}

// MergePreferences merges prefs into the stored user's preferences.
func (s *MemoryStore) MergePreferences(_ context.Context, id ulid.ULID, prefs map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return userNotFound(id)
	}
	user.mergePreferences(prefs)
	return nil
}

// AppendInteraction appends entry to the stored user's interaction log.
func (s *MemoryStore) AppendInteraction(_ context.Context, id ulid.ULID, entry Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return userNotFound(id)
	}
	user.appendInteraction(entry)
	return nil
}

// CreateResource stores a copy of resource.
func (s *MemoryStore) CreateResource(_ context.Context, resource *Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[resource.ID]; ok {
		return oops.Code(CodeDuplicateID).
			With("resource_id", resource.ID.String()).
			Wrap(ErrDuplicateID)
	}
	s.resources[resource.ID] = resource.clone()
	s.resourceOrder = append(s.resourceOrder, resource.ID)
	return nil
}

// GetResource retrieves a copy of the resource with the given ID.
func (s *MemoryStore) GetResource(_ context.Context, id ulid.ULID) (*Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resource, ok := s.resources[id]
	if !ok {
		return nil, oops.Code(CodeResourceNotFound).
			With("resource_id", id.String()).
			Wrap(ErrNotFound)
	}
	return resource.clone(), nil
}

// ListResources returns copies of all resources in insertion order.
func (s *MemoryStore) ListResources(_ context.Context) ([]*Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Resource, 0, len(s.resourceOrder))
	for _, id := range s.resourceOrder {
		result = append(result, s.resources[id].clone())
	}
	return result, nil
}

// Counts returns the number of stored users and resources.
func (s *MemoryStore) Counts() (users, resources int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.resources)
}

func userNotFound(id ulid.ULID) error {
	return oops.Code(CodeUserNotFound).
		With("user_id", id.String()).
		Wrap(ErrNotFound)
}
