// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"github.com/oklog/ulid/v2"
)

// Resource is a catalogued support item such as an exercise, a hotline or a
// therapist referral. Category is a free-form grouping label.
type Resource struct {
	ID          ulid.ULID
	Name        string
	Description string
	Category    string
	// Link is a URL or internal page token. Nil means no link, which is
	// distinct from an empty link.
	Link *string
}

// NewResource creates a Resource with a fresh ID.
func NewResource(name, description, category string, link *string) *Resource {
	r := &Resource{
		ID:          NewID(),
		Name:        name,
		Description: description,
		Category:    category,
	}
	if link != nil {
		l := *link
		r.Link = &l
	}
	return r
}

// HasLink reports whether the resource carries a link.
func (r *Resource) HasLink() bool {
	return r.Link != nil
}

func (r *Resource) clone() *Resource {
	c := *r
	if r.Link != nil {
		l := *r.Link
		c.Link = &l
	}
	return &c
}
