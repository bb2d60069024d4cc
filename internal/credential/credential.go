// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package credential

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/samber/oops"
)

// SaltLen is the length in bytes of generated salts.
const SaltLen = 16

// Error codes returned by this package.
const (
	CodeSaltFailed       = "CREDENTIAL_SALT_FAILED"
	CodeUnknownAlgorithm = "CREDENTIAL_UNKNOWN_ALGORITHM"
	CodeInvalidParams    = "CREDENTIAL_INVALID_PARAMS"
	CodeWeakPassword     = "CREDENTIAL_WEAK_PASSWORD"
)

// Algorithm names stored in Credential.Algorithm.
const (
	AlgorithmSHA256   = "sha256"
	AlgorithmArgon2id = "argon2id"
)

// Credential is a derived password credential. Salt and Digest are produced
// together by a Hasher and are never set independently.
type Credential struct {
	Algorithm string
	Salt      []byte
	Digest    string
}

// IsZero reports whether the credential is missing its salt or digest.
func (c Credential) IsZero() bool {
	return len(c.Salt) == 0 || c.Digest == ""
}

// Clone returns a copy that shares no memory with c.
func (c Credential) Clone() Credential {
	return Credential{
		Algorithm: c.Algorithm,
		Salt:      bytes.Clone(c.Salt),
		Digest:    c.Digest,
	}
}

// Hasher derives and verifies credentials.
type Hasher interface {
	// Derive generates a fresh random salt and derives a credential from it.
	// The only failure is an unavailable entropy source.
	Derive(password string) (Credential, error)

	// DeriveWithSalt derives a credential with the given salt. Deterministic.
	DeriveWithSalt(password string, salt []byte) Credential

	// Verify reports whether candidate matches the stored credential.
	// Credentials produced by a different algorithm never match.
	Verify(stored Credential, candidate string) bool

	// Algorithm returns the name recorded in derived credentials.
	Algorithm() string
}

// randReader is the entropy source for salts; replaced in tests.
var randReader io.Reader = rand.Reader

// NewSalt returns SaltLen bytes from the secure random source.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, oops.Code(CodeSaltFailed).
			With("salt_len", SaltLen).
			Wrap(err)
	}
	return salt, nil
}

// New returns the Hasher for algorithm. params is used only for argon2id;
// its zero value selects DefaultArgon2Params.
func New(algorithm string, params Argon2Params) (Hasher, error) {
	switch algorithm {
	case AlgorithmSHA256, "":
		return NewSHA256Hasher(), nil
	case AlgorithmArgon2id:
		if params == (Argon2Params{}) {
			params = DefaultArgon2Params()
		}
		return NewArgon2idHasher(params)
	default:
		return nil, oops.Code(CodeUnknownAlgorithm).
			With("algorithm", algorithm).
			Errorf("unknown hash algorithm %q", algorithm)
	}
}
