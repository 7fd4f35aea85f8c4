package masterpass

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

var (
	ErrEmptyBaseSecret = errors.New("base secret must not be empty")
	ErrEmptyDeviceID   = errors.New("device id must not be empty")
	ErrEmptyPrivateKey = errors.New("private key must not be empty")
)

const (
	// keyIterations matches the PIN hashing cost so both paths stay
	// expensive enough to resist offline guessing of the base secret.
	keyIterations = 100_000
	keyLength     = 32
)

// appSalt is fixed and embedded so the support tool, which runs in a
// separate process, derives the identical key from the same inputs.
var appSalt = []byte("kiosk-auth/master-key/v1")

// DerivePrivateKey stretches the shared base secret into a 32-byte key
// bound to one kiosk's device identifier. Deterministic: the same
// (baseSecret, deviceID) pair always yields the same bytes. The deviceID
// is taken as-is; callers that want case-insensitive behavior must
// canonicalize first (GeneratePassword and ValidatePassword do).
func DerivePrivateKey(baseSecret, deviceID string) ([]byte, error) {
	if baseSecret == "" {
		return nil, ErrEmptyBaseSecret
	}
	if deviceID == "" {
		return nil, ErrEmptyDeviceID
	}

	salt := make([]byte, 0, len(appSalt)+1+len(deviceID))
	salt = append(salt, appSalt...)
	salt = append(salt, ':')
	salt = append(salt, deviceID...)

	return pbkdf2.Key([]byte(baseSecret), salt, keyIterations, keyLength, sha256.New), nil
}
