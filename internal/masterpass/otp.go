package masterpass

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
)

const (
	// PasswordLength is the full printable code: 4 nonce digits followed
	// by 4 derived digits.
	PasswordLength = 8
	nonceLength    = 4
	digitModulus   = 10_000
)

// GeneratePassword produces a master password for one kiosk. The nonce is
// drawn uniformly from crypto/rand (leading zeros kept), the trailing four
// digits are keyed off the private key and the canonical device identifier.
// Nothing is recorded here; single-use enforcement belongs to the caller.
func GeneratePassword(privateKey []byte, deviceID string) (password, nonce string, err error) {
	if len(privateKey) == 0 {
		return "", "", ErrEmptyPrivateKey
	}
	if deviceID == "" {
		return "", "", ErrEmptyDeviceID
	}

	n, err := rand.Int(rand.Reader, big.NewInt(digitModulus))
	if err != nil {
		return "", "", fmt.Errorf("failed to draw nonce: %w", err)
	}
	nonce = fmt.Sprintf("%04d", n.Int64())

	digits := deriveDigits(privateKey, CanonicalDeviceID(deviceID), nonce)
	return nonce + digits, nonce, nil
}

// ValidatePassword checks an operator-entered candidate against the key and
// device identifier it should have been generated for. Malformed input is a
// plain rejection, never an error. The comparison covers the full 8 digits
// in constant time, so a wrong first digit costs the same as a wrong last.
func ValidatePassword(candidate string, privateKey []byte, deviceID string) (bool, string) {
	if len(candidate) != PasswordLength || !isDigits(candidate) {
		return false, ""
	}
	if len(privateKey) == 0 || deviceID == "" {
		return false, ""
	}

	nonce := candidate[:nonceLength]
	expected := nonce + deriveDigits(privateKey, CanonicalDeviceID(deviceID), nonce)

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(expected)) != 1 {
		return false, ""
	}
	return true, nonce
}

// deriveDigits computes the trailing 4 digits: HMAC-SHA256 over the device
// identifier and nonce, reduced mod 10000 and zero-padded.
func deriveDigits(privateKey []byte, deviceID, nonce string) string {
	mac := hmac.New(sha256.New, privateKey)
	mac.Write([]byte(deviceID))
	mac.Write([]byte{':'})
	mac.Write([]byte(nonce))
	sum := mac.Sum(nil)

	v := binary.BigEndian.Uint64(sum[:8]) % digitModulus
	return fmt.Sprintf("%04d", v)
}

// CanonicalDeviceID uppercases the MAC so codes survive the case
// differences between driver reports and support-tool entry. Callers that
// derive keys should canonicalize first: DerivePrivateKey itself is
// case-sensitive.
func CanonicalDeviceID(deviceID string) string {
	return strings.ToUpper(strings.TrimSpace(deviceID))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
