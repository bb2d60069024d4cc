// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package credential

import (
	"unicode/utf8"

	"github.com/samber/oops"
)

// Policy is a minimum password policy, enforced where passwords enter the
// system. Hashers never apply it. The zero value accepts every password.
type Policy struct {
	MinLength int `koanf:"min_length" validate:"gte=0"`
}

// Check returns CREDENTIAL_WEAK_PASSWORD if password violates the policy.
// Length is counted in runes.
func (p Policy) Check(password string) error {
	if p.MinLength > 0 && utf8.RuneCountInString(password) < p.MinLength {
		return oops.Code(CodeWeakPassword).
			With("min_length", p.MinLength).
			Errorf("password must be at least %d characters", p.MinLength)
	}
	return nil
}
