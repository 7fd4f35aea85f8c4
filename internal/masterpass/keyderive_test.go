package masterpass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePrivateKey_Deterministic(t *testing.T) {
	t.Parallel()

	k1, err := DerivePrivateKey("shared-secret", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	k2, err := DerivePrivateKey("shared-secret", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)
}

func TestDerivePrivateKey_DistinctInputsDiverge(t *testing.T) {
	t.Parallel()

	base, err := DerivePrivateKey("shared-secret", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)

	otherDevice, err := DerivePrivateKey("shared-secret", "AA:BB:CC:DD:EE:00")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherDevice)

	otherSecret, err := DerivePrivateKey("different-secret", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherSecret)
}

func TestDerivePrivateKey_DeviceIDCaseSensitive(t *testing.T) {
	t.Parallel()

	upper, err := DerivePrivateKey("shared-secret", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	lower, err := DerivePrivateKey("shared-secret", "aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)

	assert.NotEqual(t, upper, lower)
}

func TestDerivePrivateKey_EmptyInputs(t *testing.T) {
	t.Parallel()

	_, err := DerivePrivateKey("", "AA:BB:CC:DD:EE:FF")
	assert.ErrorIs(t, err, ErrEmptyBaseSecret)

	_, err = DerivePrivateKey("shared-secret", "")
	assert.ErrorIs(t, err, ErrEmptyDeviceID)
}
