// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"errors"

	"github.com/panicpal/panicpal/internal/credential"
	"github.com/panicpal/panicpal/pkg/errutil"
)

// Sentinel errors. Returned errors wrap these, test with errors.Is.
var (
	// ErrNotFound is returned when a requested user or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering an email that is already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrDuplicateID is returned when a store already holds an entity with the new ID.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrAuthenticationFailed is returned for both an unknown email and a wrong password.
	ErrAuthenticationFailed = errors.New("invalid email or password")

	// ErrAccountLocked is returned when lockout is enabled and active for the account.
	ErrAccountLocked = errors.New("account is temporarily locked")
)

// Error codes returned by this package.
const (
	CodeAuthFailed        = "AUTH_FAILED"
	CodeAccountLocked     = "AUTH_ACCOUNT_LOCKED"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	CodeEmailTaken        = "DIRECTORY_EMAIL_TAKEN"
	CodeDuplicateID       = "DIRECTORY_DUPLICATE_ID"
	CodeInvalidPattern    = "DIRECTORY_INVALID_PATTERN"
	CodeInvalidID         = "DIRECTORY_INVALID_ID"
	CodeInvalidCredential = "CREDENTIAL_INVALID"
)

// GenericMessage is the public text for errors with no specific mapping.
const GenericMessage = "Something went wrong. Try again."

// PublicMessage returns text that is safe to show to the person at the
// keyboard. It never distinguishes an unknown email from a wrong password.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	switch errutil.Code(err) {
	case CodeAuthFailed:
		return "Invalid email or password."
	case CodeAccountLocked:
		return "Too many failed attempts. Try again later."
	case CodeEmailTaken:
		return "An account with that email already exists."
	case CodeUserNotFound:
		return "User not found."
	case CodeResourceNotFound, CodeInvalidID:
		return "Resource not found."
	case CodeInvalidPattern:
		return "Invalid search pattern."
	case credential.CodeWeakPassword:
		return "Password is too short."
	default:
		return GenericMessage
	}
}
