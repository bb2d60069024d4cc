// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

// Package credential derives and verifies salted password digests.
//
// A Credential is the (algorithm, salt, digest) triple kept for a user in place
// of the password. Two Hasher implementations exist:
//   - SHA256Hasher - hex(sha256(salt || password)), compatible with digests
//     already stored by earlier PanicPal releases
//   - Argon2idHasher - hex(argon2id(password, salt)), a tunable slow KDF
//
// Hashers accept any password, including the empty string. Password policy is
// a boundary concern; see Policy.
package credential
