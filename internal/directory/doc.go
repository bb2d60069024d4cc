// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

// Package directory owns registered users and catalogued support resources.
//
// # Domain Types
//
// Domain types should be created using their constructors:
//   - NewUser - creates a User from a derived credential
//   - NewResource - creates a Resource with an optional link
//
// A User's preferences and interaction log are mutable only through Service
// (UpdatePreferences, LogInteraction). Values returned by a store or the
// Service are copies; mutating them never changes the stored record.
//
// # Storage
//
// UserStore and ResourceStore are the persistence seam. MemoryStore implements
// both for the lifetime of the process.
//
// # Authentication
//
// Service.Authenticate returns the same AUTH_FAILED error whether the email is
// unknown or the password is wrong. Emails are matched case-insensitively after
// trimming surrounding whitespace, and must be unique at registration.
package directory
