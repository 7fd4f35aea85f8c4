package masterpass

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	passwordPattern = regexp.MustCompile(`^\d{8}$`)
	noncePattern    = regexp.MustCompile(`^\d{4}$`)
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := DerivePrivateKey("shared-secret", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	return key
}

func TestGeneratePassword_Shape(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	for i := 0; i < 50; i++ {
		password, nonce, err := GeneratePassword(key, "AA:BB:CC:DD:EE:FF")
		require.NoError(t, err)

		assert.Regexp(t, passwordPattern, password)
		assert.Regexp(t, noncePattern, nonce)
		assert.True(t, strings.HasPrefix(password, nonce))
	}
}

func TestGeneratePassword_EmptyInputs(t *testing.T) {
	t.Parallel()

	_, _, err := GeneratePassword(nil, "AA:BB:CC:DD:EE:FF")
	assert.ErrorIs(t, err, ErrEmptyPrivateKey)

	_, _, err = GeneratePassword(testKey(t), "")
	assert.ErrorIs(t, err, ErrEmptyDeviceID)
}

func TestValidatePassword_RoundTrip(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	password, nonce, err := GeneratePassword(key, "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	valid, gotNonce := ValidatePassword(password, key, "AA:BB:CC:DD:EE:FF")
	assert.True(t, valid)
	assert.Equal(t, nonce, gotNonce)
}

func TestValidatePassword_DeviceCaseInsensitive(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	password, nonce, err := GeneratePassword(key, "aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)

	valid, gotNonce := ValidatePassword(password, key, "AA:BB:CC:DD:EE:FF")
	assert.True(t, valid)
	assert.Equal(t, nonce, gotNonce)
}

func TestValidatePassword_TamperedDigit(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	password, _, err := GeneratePassword(key, "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	for i := 0; i < len(password); i++ {
		tampered := []byte(password)
		tampered[i] = '0' + (tampered[i]-'0'+1)%10

		valid, nonce := ValidatePassword(string(tampered), key, "AA:BB:CC:DD:EE:FF")
		assert.False(t, valid, "digit %d", i)
		assert.Empty(t, nonce)
	}
}

func TestValidatePassword_WrongKeyOrDevice(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	password, _, err := GeneratePassword(key, "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	otherKey, err := DerivePrivateKey("different-secret", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	valid, _ := ValidatePassword(password, otherKey, "AA:BB:CC:DD:EE:FF")
	assert.False(t, valid)

	valid, _ = ValidatePassword(password, key, "AA:BB:CC:DD:EE:00")
	assert.False(t, valid)
}

func TestValidatePassword_MalformedCandidates(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	cases := []struct {
		name      string
		candidate string
	}{
		{"empty", ""},
		{"too short", "1234567"},
		{"too long", "123456789"},
		{"letters", "12a45678"},
		{"spaces", "1234 678"},
		{"unicode digits", "１２３４５６７８"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			valid, nonce := ValidatePassword(tc.candidate, key, "AA:BB:CC:DD:EE:FF")
			assert.False(t, valid)
			assert.Empty(t, nonce)
		})
	}
}

func TestGeneratePassword_NoncesVary(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		_, nonce, err := GeneratePassword(key, "AA:BB:CC:DD:EE:FF")
		require.NoError(t, err)
		seen[nonce] = true
	}

	// 200 uniform draws from 10000 values collapsing to a handful would
	// point at a broken randomness source.
	assert.Greater(t, len(seen), 150)
}
