package redis

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"kiosk-auth/internal/client"
	"kiosk-auth/internal/ratelimit"
	"kiosk-auth/internal/util"
)

const (
	attemptPrefix = "auth_attempt:"
	lockoutPrefix = "auth_lockout:"

	opTimeout = 5 * time.Second
)

// AttemptStore is the Redis-backed ratelimit.Limiter, used when a site
// runs several kiosks and wants one shared lockout window per principal.
//
// The limiter contract has no error channel, so Redis failures are logged
// and degrade to the safe answer: not locked, full attempt budget. A
// flapping Redis weakens brute-force protection rather than locking every
// operator out of an otherwise working kiosk.
type AttemptStore struct {
	client    *client.RedisClient
	policy    ratelimit.Policy
	namespace string
}

var _ ratelimit.Limiter = (*AttemptStore)(nil)

// NewAttemptStore creates a store for one limiter flavor. The namespace
// ("master", "pin") keeps the two flavors' keys apart.
func NewAttemptStore(c *client.RedisClient, policy ratelimit.Policy, namespace string) *AttemptStore {
	return &AttemptStore{
		client:    c,
		policy:    policy,
		namespace: namespace,
	}
}

func (s *AttemptStore) attemptKey(principal string) string {
	return attemptPrefix + s.namespace + ":" + principal
}

func (s *AttemptStore) lockoutKey(principal string) string {
	return lockoutPrefix + s.namespace + ":" + principal
}

func (s *AttemptStore) RecordFailedAttempt(principal string) int {
	if principal == "" {
		return s.policy.MaxAttempts
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	count, err := s.client.IncrWithExpire(ctx, s.attemptKey(principal), s.policy.LockoutDuration)
	if err != nil {
		util.Error("failed to increment attempt counter",
			zap.String("principal", principal),
			zap.String("namespace", s.namespace),
			zap.Error(err))
		return s.policy.MaxAttempts
	}

	if count >= int64(s.policy.MaxAttempts) {
		ok, err := s.client.SetNX(ctx, s.lockoutKey(principal), "locked", s.policy.LockoutDuration)
		if err != nil {
			util.Error("failed to set lockout key",
				zap.String("principal", principal),
				zap.Error(err))
		} else if ok {
			util.Warn("principal locked out after repeated failures",
				zap.String("principal", principal),
				zap.String("namespace", s.namespace),
				zap.Int64("failures", count),
				zap.Duration("lockout", s.policy.LockoutDuration))
		}
	}

	left := s.policy.MaxAttempts - int(count)
	if left < 0 {
		return 0
	}
	return left
}

func (s *AttemptStore) IsLockedOut(principal string) bool {
	if principal == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	locked, err := s.client.Exists(ctx, s.lockoutKey(principal))
	if err != nil {
		util.Error("failed to check lockout key",
			zap.String("principal", principal),
			zap.Error(err))
		return false
	}
	return locked
}

func (s *AttemptStore) GetRemainingLockoutMinutes(principal string) int {
	if principal == "" {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	ttl, err := s.client.TTL(ctx, s.lockoutKey(principal))
	if err != nil {
		util.Error("failed to read lockout TTL",
			zap.String("principal", principal),
			zap.Error(err))
		return 0
	}
	if ttl <= 0 {
		return 0
	}

	minutes := int(ttl / time.Minute)
	if ttl%time.Minute != 0 {
		minutes++
	}
	return minutes
}

func (s *AttemptStore) GetRemainingAttempts(principal string) int {
	if principal == "" {
		return s.policy.MaxAttempts
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.attemptKey(principal))
	if err != nil {
		// Missing counter means a clean principal.
		return s.policy.MaxAttempts
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		util.Error("invalid attempt counter format",
			zap.String("principal", principal),
			zap.String("raw", raw),
			zap.Error(err))
		return s.policy.MaxAttempts
	}

	if count >= s.policy.MaxAttempts {
		// The counter can outlive the lockout key when failures keep
		// arriving during the window. Once the lock is gone, the
		// principal is clean again.
		if !s.IsLockedOut(principal) {
			s.ClearFailedAttempts(principal)
			return s.policy.MaxAttempts
		}
		return 0
	}
	return s.policy.MaxAttempts - count
}

func (s *AttemptStore) ClearFailedAttempts(principal string) {
	if principal == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.attemptKey(principal), s.lockoutKey(principal)); err != nil {
		util.Error("failed to clear attempt state",
			zap.String("principal", principal),
			zap.Error(err))
	}
}
