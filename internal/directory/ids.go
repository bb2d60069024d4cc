// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewID generates a new 128-bit identifier. IDs generated by one process are
// strictly increasing.
func NewID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ParseID parses an identifier string.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.Code(CodeInvalidID).
			With("id", s).
			Wrap(err)
	}
	return id, nil
}
