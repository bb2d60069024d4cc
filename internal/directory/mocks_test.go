// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory_test

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/panicpal/panicpal/internal/credential"
	"github.com/panicpal/panicpal/internal/directory"
)

// mockHasher is a testify mock of credential.Hasher.
type mockHasher struct {
	mock.Mock
}

func newMockHasher() *mockHasher {
	h := &mockHasher{}
	// NewService derives its dummy credential up front.
	h.On("DeriveWithSalt", mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8")).
		Return(credential.Credential{Algorithm: "mock", Salt: make([]byte, credential.SaltLen), Digest: "dummy"}).
		Maybe()
	h.On("Algorithm").Return("mock").Maybe()
	return h
}

func (m *mockHasher) Derive(password string) (credential.Credential, error) {
	args := m.Called(password)
	return args.Get(0).(credential.Credential), args.Error(1)
}

func (m *mockHasher) DeriveWithSalt(password string, salt []byte) credential.Credential {
	args := m.Called(password, salt)
	return args.Get(0).(credential.Credential)
}

func (m *mockHasher) Verify(stored credential.Credential, candidate string) bool {
	args := m.Called(stored, candidate)
	return args.Bool(0)
}

func (m *mockHasher) Algorithm() string {
	return m.Called().String(0)
}

// failingStore fails every operation with err.
type failingStore struct {
	err error
}

func (f failingStore) CreateUser(context.Context, *directory.User) error { return f.err }

func (f failingStore) GetUser(context.Context, ulid.ULID) (*directory.User, error) {
	return nil, f.err
}

func (f failingStore) GetUserByEmail(context.Context, string) (*directory.User, error) {
	return nil, f.err
}

func (f failingStore) MergePreferences(context.Context, ulid.ULID, map[string]any) error {
	return f.err
}

func (f failingStore) AppendInteraction(context.Context, ulid.ULID, directory.Interaction) error {
	return f.err
}

func (f failingStore) CreateResource(context.Context, *directory.Resource) error { return f.err }

func (f failingStore) GetResource(context.Context, ulid.ULID) (*directory.Resource, error) {
	return nil, f.err
}

func (f failingStore) ListResources(context.Context) ([]*directory.Resource, error) {
	return nil, f.err
}
