package hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

var ErrInvalidPIN = errors.New("pin must be exactly 4 digits")

const (
	pinLength     = 4
	pinIterations = 100_000
	saltLength    = 16
	keyLength     = 32
)

// HashPINWithNewSalt hashes a recovery PIN with a fresh random salt.
// Two calls with the same PIN never produce the same salt or hash, so a
// stored record leaks nothing about whether two users share a PIN.
func HashPINWithNewSalt(pin string) (hash, salt string, err error) {
	if !isFourDigits(pin) {
		return "", "", ErrInvalidPIN
	}

	saltBytes := make([]byte, saltLength)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(pin), saltBytes, pinIterations, keyLength, sha256.New)

	return base64.RawURLEncoding.EncodeToString(key),
		base64.RawURLEncoding.EncodeToString(saltBytes),
		nil
}

// VerifyPIN checks a candidate against a stored hash+salt pair. Any
// malformed input is a plain rejection. The final comparison is constant
// time regardless of where the candidate diverges.
func VerifyPIN(candidate, storedHash, storedSalt string) bool {
	if candidate == "" || storedHash == "" || storedSalt == "" {
		return false
	}

	saltBytes, err := base64.RawURLEncoding.DecodeString(storedSalt)
	if err != nil {
		return false
	}
	expected, err := base64.RawURLEncoding.DecodeString(storedHash)
	if err != nil {
		return false
	}

	computed := pbkdf2.Key([]byte(candidate), saltBytes, pinIterations, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func isFourDigits(s string) bool {
	if len(s) != pinLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
