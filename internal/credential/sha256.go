// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SHA256Hasher implements Hasher as hex(sha256(salt || utf8(password))).
// A single fast hash; prefer Argon2idHasher where compatibility allows.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Algorithm returns AlgorithmSHA256.
func (h *SHA256Hasher) Algorithm() string {
	return AlgorithmSHA256
}

// Derive generates a salt and derives the credential.
func (h *SHA256Hasher) Derive(password string) (Credential, error) {
	salt, err := NewSalt()
	if err != nil {
		return Credential{}, err
	}
	return h.DeriveWithSalt(password, salt), nil
}

// DeriveWithSalt derives the credential for password using salt.
func (h *SHA256Hasher) DeriveWithSalt(password string, salt []byte) Credential {
	return Credential{
		Algorithm: AlgorithmSHA256,
		Salt:      append([]byte(nil), salt...),
		Digest:    sha256Digest(salt, password),
	}
}

// Verify recomputes the digest and compares in constant time.
func (h *SHA256Hasher) Verify(stored Credential, candidate string) bool {
	if stored.Algorithm != AlgorithmSHA256 {
		return false
	}
	computed := sha256Digest(stored.Salt, candidate)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored.Digest)) == 1
}

func sha256Digest(salt []byte, password string) string {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}
