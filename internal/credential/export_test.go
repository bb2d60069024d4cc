// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package credential

import "io"

// SetRandReader swaps the salt entropy source for the duration of a test.
func SetRandReader(r io.Reader) (restore func()) {
	prev := randReader
	randReader = r
	return func() { randReader = prev }
}
