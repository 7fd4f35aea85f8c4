package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPINWithNewSalt_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, salt, err := HashPINWithNewSalt("1234")
	require.NoError(t, err)

	assert.True(t, VerifyPIN("1234", hash, salt))
	assert.False(t, VerifyPIN("1235", hash, salt))
	assert.False(t, VerifyPIN("0000", hash, salt))
}

func TestHashPINWithNewSalt_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	hash1, salt1, err := HashPINWithNewSalt("1234")
	require.NoError(t, err)
	hash2, salt2, err := HashPINWithNewSalt("1234")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestHashPINWithNewSalt_EncodedLength(t *testing.T) {
	t.Parallel()

	hash, salt, err := HashPINWithNewSalt("0007")
	require.NoError(t, err)

	assert.Greater(t, len(hash), 20)
	assert.NotEmpty(t, salt)
}

func TestHashPINWithNewSalt_RejectsBadShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		pin  string
	}{
		{"empty", ""},
		{"too short", "123"},
		{"too long", "12345"},
		{"letters", "12a4"},
		{"spaces", "12 4"},
		{"negative", "-123"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := HashPINWithNewSalt(tc.pin)
			assert.ErrorIs(t, err, ErrInvalidPIN)
		})
	}
}

func TestVerifyPIN_MalformedStoredValues(t *testing.T) {
	t.Parallel()

	hash, salt, err := HashPINWithNewSalt("4321")
	require.NoError(t, err)

	assert.False(t, VerifyPIN("", hash, salt))
	assert.False(t, VerifyPIN("4321", "", salt))
	assert.False(t, VerifyPIN("4321", hash, ""))
	assert.False(t, VerifyPIN("4321", "!!not-base64!!", salt))
	assert.False(t, VerifyPIN("4321", hash, "!!not-base64!!"))
}

func TestVerifyPIN_LeadingZeros(t *testing.T) {
	t.Parallel()

	hash, salt, err := HashPINWithNewSalt("0042")
	require.NoError(t, err)

	assert.True(t, VerifyPIN("0042", hash, salt))
	assert.False(t, VerifyPIN("42", hash, salt))
}
