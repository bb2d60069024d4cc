// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panicpal/panicpal/internal/catalog"
	"github.com/panicpal/panicpal/internal/credential"
	"github.com/panicpal/panicpal/internal/directory"
	"github.com/panicpal/panicpal/pkg/errutil"
)

const validCatalog = `
version: 1.2.0
resources:
  - name: Box Breathing
    description: Four counts in, hold, out, hold.
    category: Coping Strategies
  - name: Crisis Text Line
    description: Text HOME to 741741.
    category: Hotlines
    link: https://www.crisistextline.org
`

func TestParse(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		f, err := catalog.Parse([]byte(validCatalog))
		require.NoError(t, err)

		assert.Equal(t, "1.2.0", f.Version)
		require.Len(t, f.Resources, 2)
		assert.Equal(t, "Box Breathing", f.Resources[0].Name)
		assert.Nil(t, f.Resources[0].Link)
		require.NotNil(t, f.Resources[1].Link)
		assert.Equal(t, "https://www.crisistextline.org", *f.Resources[1].Link)
	})

	t.Run("empty link is kept distinct from no link", func(t *testing.T) {
		f, err := catalog.Parse([]byte(`
version: 1.0.0
resources:
  - name: R
    description: d
    category: c
    link: ""
`))
		require.NoError(t, err)
		require.NotNil(t, f.Resources[0].Link)
		assert.Empty(t, *f.Resources[0].Link)
	})

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"invalid YAML", "version: [unclosed"},
		{"missing version", "resources: []"},
		{"numeric version", "version: 1\nresources: []"},
		{"missing resources", "version: 1.0.0"},
		{"missing category", "version: 1.0.0\nresources:\n  - name: R\n    description: d\n"},
		{"unknown field", "version: 1.0.0\nresources: []\nextra: true"},
		{"unknown entry field", "version: 1.0.0\nresources:\n  - name: R\n    description: d\n    category: c\n    url: x\n"},
		{"not semver", "version: latest\nresources: []"},
		{"unsupported major", "version: 2.0.0\nresources: []"},
		{"pre-1.0", "version: 0.9.0\nresources: []"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := catalog.Parse([]byte(tt.data))
			assert.Nil(t, f)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, catalog.CodeInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(validCatalog), 0o600))

		f, err := catalog.Load(path)
		require.NoError(t, err)
		assert.Len(t, f.Resources, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "missing.yaml")
		_, err := catalog.Load(path)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, catalog.CodeInvalid)
		errutil.AssertErrorContext(t, err, "path", path)
	})

	t.Run("invalid file carries path", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: 3.0.0\nresources: []"), 0o600))

		_, err := catalog.Load(path)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, catalog.CodeInvalid)
		errutil.AssertErrorContext(t, err, "path", path)
	})
}

func TestDefault(t *testing.T) {
	f, err := catalog.Default()
	require.NoError(t, err)
	require.Len(t, f.Resources, 3)

	breathing := f.Resources[0]
	assert.Equal(t, "Calm Breathing Exercise", breathing.Name)
	assert.Equal(t, "Coping Strategies", breathing.Category)
	require.NotNil(t, breathing.Link)
	assert.Equal(t, "some_link", *breathing.Link)

	hotline := f.Resources[1]
	assert.Equal(t, "National Suicide Prevention Lifeline", hotline.Name)
	assert.Equal(t, "Hotlines", hotline.Category)
	assert.Nil(t, hotline.Link)

	therapist := f.Resources[2]
	assert.Equal(t, "Find a Therapist", therapist.Name)
	assert.Equal(t, "Therapists", therapist.Category)
	require.NotNil(t, therapist.Link)
	assert.Equal(t, "therapist_link", *therapist.Link)

	assert.Len(t, f.CopingTips, 6)
	tip, ok := f.RandomTip()
	require.True(t, ok)
	assert.Contains(t, f.CopingTips, tip)
	assert.Equal(t, "Call or text 988", hotline.Description)

	// Callers cannot alter the embedded data.
	data := catalog.DefaultData()
	data[0] = 'X'
	_, err = catalog.Default()
	assert.NoError(t, err)
}

func TestFile_RandomTip(t *testing.T) {
	f := &catalog.File{}
	_, ok := f.RandomTip()
	assert.False(t, ok)

	f.CopingTips = []string{"only"}
	tip, ok := f.RandomTip()
	require.True(t, ok)
	assert.Equal(t, "only", tip)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("adds entries in file order", func(t *testing.T) {
		store := directory.NewMemoryStore()
		svc, err := directory.NewService(store, store, credential.NewSHA256Hasher())
		require.NoError(t, err)

		f, err := catalog.Default()
		require.NoError(t, err)
		n, err := catalog.Seed(ctx, svc, f)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		categories, err := svc.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Coping Strategies", "Hotlines", "Therapists"}, categories)

		hotlines, err := svc.ResourcesByCategory(ctx, "Hotlines")
		require.NoError(t, err)
		require.Len(t, hotlines, 1)
		assert.False(t, hotlines[0].HasLink())
	})

	t.Run("stops at first failure", func(t *testing.T) {
		addErr := errors.New("store unavailable")
		adder := &failAfter{limit: 1, err: addErr}

		f, err := catalog.Default()
		require.NoError(t, err)
		n, err := catalog.Seed(ctx, adder, f)
		require.Error(t, err)
		assert.ErrorIs(t, err, addErr)
		assert.Equal(t, 1, n)
		errutil.AssertErrorContext(t, err, "name", "National Suicide Prevention Lifeline")
	})
}

// failAfter accepts limit resources then fails.
type failAfter struct {
	limit int
	added int
	err   error
}

func (f *failAfter) AddResource(_ context.Context, name, description, category string, link *string) (*directory.Resource, error) {
	if f.added >= f.limit {
		return nil, f.err
	}
	f.added++
	return directory.NewResource(name, description, category, link), nil
}
