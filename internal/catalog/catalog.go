// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

// Package catalog loads resource catalog files and seeds the directory
// with their entries.
package catalog

import (
	"context"
	_ "embed"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/panicpal/panicpal/internal/directory"
)

// CodeInvalid is returned for catalog files that fail parsing or validation.
const CodeInvalid = "CATALOG_INVALID"

// SupportedVersions is the semver constraint a catalog version must satisfy.
const SupportedVersions = "^1"

//go:embed default.yaml
var defaultCatalog []byte

// File represents a catalog.yaml file.
type File struct {
	Version   string  `yaml:"version" json:"version" jsonschema:"description=Catalog format version (semver)"`
	Resources []Entry `yaml:"resources" json:"resources"`
	// CopingTips are short self-help prompts offered at random.
	CopingTips []string `yaml:"coping_tips,omitempty" json:"coping_tips,omitempty"`
}

// Entry is one resource in a catalog file.
type Entry struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Category    string  `yaml:"category" json:"category"`
	Link        *string `yaml:"link,omitempty" json:"link,omitempty" jsonschema:"description=URL or internal page token"`
}

// Parse validates data against the catalog schema and decodes it.
func Parse(data []byte) (*File, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "invalid YAML")
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses the catalog file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from trusted config
	if err != nil {
		return nil, oops.Code(CodeInvalid).With("path", path).Wrapf(err, "read catalog")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return f, nil
}

// Default returns the built-in catalog.
func Default() (*File, error) {
	return Parse(defaultCatalog)
}

// DefaultData returns the raw built-in catalog file.
func DefaultData() []byte {
	return append([]byte(nil), defaultCatalog...)
}

// Validate checks constraints the schema cannot express.
func (f *File) Validate() error {
	v, err := semver.NewVersion(f.Version)
	if err != nil {
		return oops.Code(CodeInvalid).With("version", f.Version).Wrapf(err, "version is not semver")
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return oops.Code(CodeInvalid).Wrapf(err, "parse version constraint")
	}
	if !constraint.Check(v) {
		return oops.Code(CodeInvalid).
			With("version", f.Version).
			Errorf("version %s is not supported, want %s", f.Version, SupportedVersions)
	}
	return nil
}

// RandomTip returns a coping tip chosen uniformly at random, or false if
// the catalog has none.
func (f *File) RandomTip() (string, bool) {
	if len(f.CopingTips) == 0 {
		return "", false
	}
	return f.CopingTips[rand.IntN(len(f.CopingTips))], true
}

// ResourceAdder adds resources to a directory.
type ResourceAdder interface {
	AddResource(ctx context.Context, name, description, category string, link *string) (*directory.Resource, error)
}

// Seed adds every entry in f to dir in file order and returns the number added.
// Seeding stops at the first failure.
func Seed(ctx context.Context, dir ResourceAdder, f *File) (int, error) {
	for i, e := range f.Resources {
		if _, err := dir.AddResource(ctx, e.Name, e.Description, e.Category, e.Link); err != nil {
			return i, oops.With("operation", "seed resource").With("name", e.Name).Wrap(err)
		}
	}
	slog.InfoContext(ctx, "catalog seeded",
		"version", f.Version,
		"resources", len(f.Resources))
	return len(f.Resources), nil
}
