// Package ratelimit tracks failed authentication attempts per principal and
// enforces a time-boxed lockout once a configured threshold is reached.
//
// Two limiter instances run in a kiosk: one for master-password attempts
// (3 tries) and one for PIN recovery (5 tries), both with a 15-minute
// lockout. State is per-principal and case-sensitive; "admin" and "ADMIN"
// never share a counter. The limiter API never returns errors: callers
// must be able to query lockout status unconditionally.
package ratelimit

import "time"

// Limiter is the attempt-tracking contract shared by the in-memory store
// and the Redis-backed store.
type Limiter interface {
	// RecordFailedAttempt increments the failure counter for principal and
	// returns the attempts left before (or at) lockout, never negative.
	// Crossing the threshold starts the lockout window. An empty principal
	// is a no-op.
	RecordFailedAttempt(principal string) int

	// IsLockedOut reports whether principal is inside an active lockout
	// window. Unknown and empty principals are never locked. An expired
	// window is cleared lazily on this query.
	IsLockedOut(principal string) bool

	// GetRemainingLockoutMinutes returns the ceiling of the remaining
	// lockout in minutes, 0 when not locked.
	GetRemainingLockoutMinutes(principal string) int

	// GetRemainingAttempts mirrors RecordFailedAttempt's return without
	// incrementing. Unknown principals have the full budget.
	GetRemainingAttempts(principal string) int

	// ClearFailedAttempts resets the counter and any lockout. Idempotent,
	// safe for unknown and empty principals.
	ClearFailedAttempts(principal string)
}

// Policy configures one limiter flavor.
type Policy struct {
	MaxAttempts     int
	LockoutDuration time.Duration
}

// MasterPasswordPolicy is the stricter budget for master-password logins.
func MasterPasswordPolicy(lockout time.Duration) Policy {
	return Policy{MaxAttempts: 3, LockoutDuration: lockout}
}

// PINRecoveryPolicy is the budget for the local-PIN recovery flow.
func PINRecoveryPolicy(lockout time.Duration) Policy {
	return Policy{MaxAttempts: 5, LockoutDuration: lockout}
}
