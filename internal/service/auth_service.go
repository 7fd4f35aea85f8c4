package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kiosk-auth/internal/config"
	"kiosk-auth/internal/events"
	"kiosk-auth/internal/hashing"
	"kiosk-auth/internal/masterpass"
	"kiosk-auth/internal/models"
	"kiosk-auth/internal/ratelimit"
	"kiosk-auth/internal/repository/sqlite"
	"kiosk-auth/internal/util"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfigured      = errors.New("auth base secret is not configured")
)

// LockoutError reports an active lockout window to the caller.
type LockoutError struct {
	RemainingMinutes int
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("locked out, try again in %d minutes", e.RemainingMinutes)
}

// CredentialsError is a rejection carrying the attempts left before
// lockout. It unwraps to ErrInvalidCredentials.
type CredentialsError struct {
	RemainingAttempts int
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempts remaining", e.RemainingAttempts)
}

func (e *CredentialsError) Unwrap() error {
	return ErrInvalidCredentials
}

// AdminStore is the slice of the credential repository the service needs.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	UpdatePIN(ctx context.Context, username, pinHash, pinSalt string) error
	TouchLastLogin(ctx context.Context, username string) error
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	Scope     string    `json:"scope"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SupportPassword is a freshly generated master password for one kiosk.
type SupportPassword struct {
	DeviceID string `json:"device_id"`
	Password string `json:"password"`
	Nonce    string `json:"nonce"`
}

// AuthService composes the security core: it checks lockout state before
// any validation, records or clears attempts after it, and issues session
// tokens on success.
type AuthService struct {
	store         AdminStore
	masterLimiter ratelimit.Limiter
	pinLimiter    ratelimit.Limiter
	publisher     *events.Publisher

	baseSecret string
	deviceID   string
	privateKey []byte

	jwtSecret  []byte
	sessionTTL time.Duration
}

// NewAuthService derives the kiosk's private key once and wires the rest.
// The device identifier must already be canonical (see
// masterpass.ResolveDeviceID).
func NewAuthService(
	cfg *config.SecurityConfig,
	deviceID string,
	store AdminStore,
	masterLimiter ratelimit.Limiter,
	pinLimiter ratelimit.Limiter,
	publisher *events.Publisher,
) (*AuthService, error) {
	if cfg.BaseSecret == "" {
		return nil, ErrNotConfigured
	}

	privateKey, err := masterpass.DerivePrivateKey(cfg.BaseSecret, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive private key: %w", err)
	}

	return &AuthService{
		store:         store,
		masterLimiter: masterLimiter,
		pinLimiter:    pinLimiter,
		publisher:     publisher,
		baseSecret:    cfg.BaseSecret,
		deviceID:      deviceID,
		privateKey:    privateKey,
		jwtSecret:     []byte(cfg.JWTSecret),
		sessionTTL:    cfg.SessionTTL,
	}, nil
}

// LoginMasterPassword validates a support-issued 8-digit code against this
// kiosk's derived key. Order matters: lockout check first, then validation,
// then attempt bookkeeping.
func (s *AuthService) LoginMasterPassword(ctx context.Context, username, candidate string) (*LoginResult, error) {
	username = util.SanitizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	if s.masterLimiter.IsLockedOut(username) {
		return nil, &LockoutError{
			RemainingMinutes: s.masterLimiter.GetRemainingLockoutMinutes(username),
		}
	}

	valid, nonce := masterpass.ValidatePassword(candidate, s.privateKey, s.deviceID)
	if !valid {
		remaining := s.masterLimiter.RecordFailedAttempt(username)
		s.publisher.Publish(ctx, models.EventLoginFailed, username, "master password rejected")
		if remaining == 0 {
			s.publisher.Publish(ctx, models.EventLockout, username, "master password attempts exhausted")
		}
		return nil, &CredentialsError{RemainingAttempts: remaining}
	}

	s.masterLimiter.ClearFailedAttempts(username)
	s.afterLogin(ctx, username)
	util.Info("master password accepted",
		zap.String("username", username),
		zap.String("nonce", nonce))

	return s.issueResult(username, ScopeSession)
}

// LoginPIN is the local recovery flow: the 4-digit PIN stored for the
// operator, with its own more lenient attempt budget.
func (s *AuthService) LoginPIN(ctx context.Context, username, pin string) (*LoginResult, error) {
	username = util.SanitizeUsername(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	if s.pinLimiter.IsLockedOut(username) {
		return nil, &LockoutError{
			RemainingMinutes: s.pinLimiter.GetRemainingLockoutMinutes(username),
		}
	}

	user, err := s.store.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, sqlite.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Unknown users burn an attempt like wrong PINs do, so the endpoint
	// doesn't reveal which usernames exist.
	ok := err == nil && hashing.VerifyPIN(pin, user.PINHash, user.PINSalt)
	if !ok {
		remaining := s.pinLimiter.RecordFailedAttempt(username)
		s.publisher.Publish(ctx, models.EventLoginFailed, username, "pin rejected")
		if remaining == 0 {
			s.publisher.Publish(ctx, models.EventLockout, username, "pin attempts exhausted")
		}
		return nil, &CredentialsError{RemainingAttempts: remaining}
	}

	s.pinLimiter.ClearFailedAttempts(username)
	s.afterLogin(ctx, username)
	util.Info("pin accepted", zap.String("username", username))

	return s.issueResult(username, ScopeRecovery)
}

// SetPIN stores a freshly salted hash of the new PIN for username.
func (s *AuthService) SetPIN(ctx context.Context, username, pin string) error {
	username = util.SanitizeUsername(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	hash, salt, err := hashing.HashPINWithNewSalt(pin)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.store.UpdatePIN(ctx, username, hash, salt); err != nil {
		return err
	}

	s.publisher.Publish(ctx, models.EventPINChanged, username, "")
	util.Info("pin updated", zap.String("username", username))
	return nil
}

// GenerateSupportPassword produces a printable master password for the
// given kiosk MAC. This is the support-tool path: it derives the target
// kiosk's key from the shared base secret, so it works for any device ID,
// not just the local one.
func (s *AuthService) GenerateSupportPassword(ctx context.Context, deviceID string) (*SupportPassword, error) {
	canonical := masterpass.CanonicalDeviceID(deviceID)
	if canonical == "" || util.ContainsSuspicious(canonical) {
		return nil, fmt.Errorf("%w: device id is required", ErrInvalidInput)
	}

	key, err := masterpass.DerivePrivateKey(s.baseSecret, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key for device: %w", err)
	}

	password, nonce, err := masterpass.GeneratePassword(key, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	s.publisher.Publish(ctx, models.EventSupportIssued, "", canonical)
	util.Info("support password issued", zap.String("device_id", canonical))

	return &SupportPassword{
		DeviceID: canonical,
		Password: password,
		Nonce:    nonce,
	}, nil
}

// DeviceID returns the canonical identifier this service validates against.
func (s *AuthService) DeviceID() string {
	return s.deviceID
}

func (s *AuthService) afterLogin(ctx context.Context, username string) {
	if err := s.store.TouchLastLogin(ctx, username); err != nil && !errors.Is(err, sqlite.ErrUserNotFound) {
		util.Warn("failed to record last login",
			zap.String("username", username),
			zap.Error(err))
	}
	s.publisher.Publish(ctx, models.EventLoginSuccess, username, "")
}

func (s *AuthService) issueResult(username, scope string) (*LoginResult, error) {
	expiresAt := time.Now().Add(s.sessionTTL)
	token, err := s.issueToken(username, scope, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return &LoginResult{
		Username:  username,
		Token:     token,
		Scope:     scope,
		ExpiresAt: expiresAt,
	}, nil
}
