// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package directory

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultLockoutDuration is used when a policy sets a threshold but no duration.
const DefaultLockoutDuration = 15 * time.Minute

// LockoutPolicy limits failed password attempts per account.
// The zero value disables lockout: attempts are unlimited.
type LockoutPolicy struct {
	// Threshold is the number of consecutive failures that locks the account.
	Threshold int `koanf:"threshold" validate:"gte=0"`

	// Duration is how long the account stays locked.
	Duration time.Duration `koanf:"duration" validate:"gte=0"`
}

// Enabled reports whether the policy limits attempts.
func (p LockoutPolicy) Enabled() bool {
	return p.Threshold > 0
}

func (p LockoutPolicy) duration() time.Duration {
	if p.Duration <= 0 {
		return DefaultLockoutDuration
	}
	return p.Duration
}

// lockoutState tracks failures for one account.
type lockoutState struct {
	failures    int
	lockedUntil time.Time
}

// lockoutTracker counts consecutive failures per user ID.
type lockoutTracker struct {
	policy LockoutPolicy
	mu     sync.Mutex
	states map[ulid.ULID]*lockoutState
}

func newLockoutTracker(policy LockoutPolicy) *lockoutTracker {
	return &lockoutTracker{
		policy: policy,
		states: make(map[ulid.ULID]*lockoutState),
	}
}

// recordFailure increments the failure counter and sets the lockout once the
// threshold is reached. Returns the updated failure count.
func (t *lockoutTracker) recordFailure(id ulid.ULID, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[id]
	if !ok {
		st = &lockoutState{}
		t.states[id] = st
	}
	st.failures++
	if st.failures >= t.policy.Threshold {
		st.lockedUntil = now.Add(t.policy.duration())
	}
	return st.failures
}

// lockedUntil returns the lockout expiry and whether it is still in effect.
// An expired lockout is cleared so the account starts counting from zero.
func (t *lockoutTracker) lockedUntil(id ulid.ULID, now time.Time) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[id]
	if !ok {
		return time.Time{}, false
	}
	if st.lockedUntil.IsZero() {
		return time.Time{}, false
	}
	if !st.lockedUntil.After(now) {
		delete(t.states, id)
		return time.Time{}, false
	}
	return st.lockedUntil, true
}

// reset clears failures after a successful login.
func (t *lockoutTracker) reset(id ulid.ULID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, id)
}
