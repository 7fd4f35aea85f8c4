package masterpass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDeviceID_OverrideWins(t *testing.T) {
	t.Parallel()

	id, err := ResolveDeviceID("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", id)
}

func TestResolveDeviceID_OverrideTrimmed(t *testing.T) {
	t.Parallel()

	id, err := ResolveDeviceID("  aa-bb-cc-dd-ee-ff ")
	require.NoError(t, err)
	assert.Equal(t, "AA-BB-CC-DD-EE-FF", id)
}
