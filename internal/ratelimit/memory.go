package ratelimit

import (
	"sync"
	"time"

	"github.com/spaolacci/murmur3"

	"kiosk-auth/internal/util"
)

const stripeCount = 16

type attemptRecord struct {
	failures    int
	lockedUntil time.Time
}

type stripe struct {
	mu      sync.Mutex
	entries map[string]*attemptRecord
}

// MemoryLimiter keeps attempt counters in process memory, sharded across
// murmur3-picked lock stripes so unrelated principals don't contend.
// State is not persisted: a kiosk restart clears all lockouts.
type MemoryLimiter struct {
	policy  Policy
	stripes [stripeCount]*stripe

	// now is swappable in tests to drive lockout expiry.
	now func() time.Time
}

// NewMemoryLimiter creates an empty limiter with the given policy.
func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	l := &MemoryLimiter{
		policy: policy,
		now:    time.Now,
	}
	for i := range l.stripes {
		l.stripes[i] = &stripe{entries: make(map[string]*attemptRecord)}
	}
	return l
}

func (l *MemoryLimiter) stripeFor(principal string) *stripe {
	return l.stripes[murmur3.Sum32([]byte(principal))%stripeCount]
}

func (l *MemoryLimiter) RecordFailedAttempt(principal string) int {
	if principal == "" {
		return l.policy.MaxAttempts
	}

	s := l.stripeFor(principal)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.entries[principal]
	if rec == nil {
		rec = &attemptRecord{}
		s.entries[principal] = rec
	} else if l.expired(rec) {
		*rec = attemptRecord{}
	}

	rec.failures++
	if rec.failures >= l.policy.MaxAttempts && rec.lockedUntil.IsZero() {
		rec.lockedUntil = l.now().Add(l.policy.LockoutDuration)
		util.Warn("principal locked out after repeated failures",
			util.String("principal", principal),
			util.Int("failures", rec.failures),
			util.Duration("lockout", l.policy.LockoutDuration),
		)
	}

	return remaining(l.policy.MaxAttempts, rec.failures)
}

func (l *MemoryLimiter) IsLockedOut(principal string) bool {
	if principal == "" {
		return false
	}

	s := l.stripeFor(principal)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.entries[principal]
	if rec == nil {
		return false
	}
	if l.expired(rec) {
		delete(s.entries, principal)
		return false
	}
	return !rec.lockedUntil.IsZero()
}

func (l *MemoryLimiter) GetRemainingLockoutMinutes(principal string) int {
	if principal == "" {
		return 0
	}

	s := l.stripeFor(principal)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.entries[principal]
	if rec == nil || rec.lockedUntil.IsZero() {
		return 0
	}

	left := rec.lockedUntil.Sub(l.now())
	if left <= 0 {
		delete(s.entries, principal)
		return 0
	}
	return ceilMinutes(left)
}

func (l *MemoryLimiter) GetRemainingAttempts(principal string) int {
	if principal == "" {
		return l.policy.MaxAttempts
	}

	s := l.stripeFor(principal)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.entries[principal]
	if rec == nil {
		return l.policy.MaxAttempts
	}
	if l.expired(rec) {
		delete(s.entries, principal)
		return l.policy.MaxAttempts
	}
	return remaining(l.policy.MaxAttempts, rec.failures)
}

func (l *MemoryLimiter) ClearFailedAttempts(principal string) {
	if principal == "" {
		return
	}

	s := l.stripeFor(principal)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, principal)
}

// failureCount exists for white-box tests.
func (l *MemoryLimiter) failureCount(principal string) int {
	s := l.stripeFor(principal)
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.entries[principal]; rec != nil {
		return rec.failures
	}
	return 0
}

func (l *MemoryLimiter) expired(rec *attemptRecord) bool {
	return !rec.lockedUntil.IsZero() && !l.now().Before(rec.lockedUntil)
}

func remaining(max, failures int) int {
	if failures >= max {
		return 0
	}
	return max - failures
}

func ceilMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	return m
}
