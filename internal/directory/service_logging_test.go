// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panicpal/panicpal/internal/credential"
	"github.com/panicpal/panicpal/internal/directory"
	"github.com/panicpal/panicpal/internal/logging"
)

func TestService_NeverLogsPasswords(t *testing.T) {
	const password = "correct-horse-battery-staple"
	ctx := context.Background()

	var buf bytes.Buffer
	logger := logging.Setup("panicpal-test", "test", "json", &buf)

	store := directory.NewMemoryStore()
	svc, err := directory.NewService(store, store, credential.NewSHA256Hasher(),
		directory.WithLogger(logger),
		directory.WithLockout(directory.LockoutPolicy{Threshold: 2}))
	require.NoError(t, err)

	user, err := svc.RegisterUser(ctx, "A", "a@x.com", password)
	require.NoError(t, err)
	_, _ = svc.RegisterUser(ctx, "A", "a@x.com", password)
	_, _ = svc.Authenticate(ctx, "a@x.com", password)
	_, _ = svc.Authenticate(ctx, "a@x.com", password+"x")
	_, _ = svc.Authenticate(ctx, "a@x.com", password+"y")
	_, _ = svc.Authenticate(ctx, "a@x.com", password)
	_, _ = svc.Authenticate(ctx, "nobody@x.com", password)
	require.NoError(t, svc.LogInteraction(ctx, user.ID, "chat", "hello"))

	out := buf.String()
	require.NotEmpty(t, out)
	assert.NotContains(t, out, password)
	assert.NotContains(t, out, user.Credential().Digest)
	assert.Contains(t, out, "user registered")
	assert.Contains(t, out, "authentication failed")
	assert.Contains(t, out, "account locked")
}
