// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package credential

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// argon2KeyLen is the derived key length in bytes.
const argon2KeyLen = 32

// Argon2Params tunes the argon2id key derivation.
type Argon2Params struct {
	Time    uint32 `koanf:"time"`
	Memory  uint32 `koanf:"memory"` // KiB
	Threads uint8  `koanf:"threads"`
}

// DefaultArgon2Params returns OWASP-recommended argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
	}
}

// Validate checks the parameters are usable by argon2.IDKey.
func (p Argon2Params) Validate() error {
	if p.Time == 0 {
		return oops.Code(CodeInvalidParams).Errorf("argon2 time must be at least 1")
	}
	if p.Threads == 0 {
		return oops.Code(CodeInvalidParams).Errorf("argon2 threads must be at least 1")
	}
	if p.Memory < 8*uint32(p.Threads) {
		return oops.Code(CodeInvalidParams).
			With("memory", p.Memory).
			With("threads", p.Threads).
			Errorf("argon2 memory must be at least 8 KiB per thread")
	}
	return nil
}

// Argon2idHasher implements Hasher using argon2id. Parameters are fixed per
// hasher; credentials derived with other parameters do not verify.
type Argon2idHasher struct {
	params Argon2Params
}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher(params Argon2Params) (*Argon2idHasher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Argon2idHasher{params: params}, nil
}

// Algorithm returns AlgorithmArgon2id.
func (h *Argon2idHasher) Algorithm() string {
	return AlgorithmArgon2id
}

// Params returns the hasher's parameters.
func (h *Argon2idHasher) Params() Argon2Params {
	return h.params
}

// Derive generates a salt and derives the credential.
func (h *Argon2idHasher) Derive(password string) (Credential, error) {
	salt, err := NewSalt()
	if err != nil {
		return Credential{}, err
	}
	return h.DeriveWithSalt(password, salt), nil
}

// DeriveWithSalt derives the credential for password using salt.
func (h *Argon2idHasher) DeriveWithSalt(password string, salt []byte) Credential {
	return Credential{
		Algorithm: AlgorithmArgon2id,
		Salt:      append([]byte(nil), salt...),
		Digest:    hex.EncodeToString(h.key(password, salt)),
	}
}

// Verify recomputes the key and compares in constant time.
func (h *Argon2idHasher) Verify(stored Credential, candidate string) bool {
	if stored.Algorithm != AlgorithmArgon2id {
		return false
	}
	expected, err := hex.DecodeString(stored.Digest)
	if err != nil || len(expected) != argon2KeyLen {
		return false
	}
	return subtle.ConstantTimeCompare(h.key(candidate, stored.Salt), expected) == 1
}

func (h *Argon2idHasher) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, argon2KeyLen)
}
