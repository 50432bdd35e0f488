package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/gamewallet/internal/domain/errors"
	"github.com/playforge/gamewallet/internal/domain/valueobjects"
)

func TestNewAssetType(t *testing.T) {
	t.Run("normalizes code to uppercase", func(t *testing.T) {
		at, err := NewAssetType(" gold ", "Gold Coins", "in-game currency", 2)
		require.NoError(t, err)
		assert.Equal(t, "GOLD", at.Code())
		assert.True(t, at.IsActive())
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		for _, code := range []string{"", "G", "gold coins", "1GOLD", "VERYLONGASSETCODE"} {
			_, err := NewAssetType(code, "x", "", 2)
			assert.True(t, errors.IsValidation(err), "code %q should be rejected", code)
		}
	})

	t.Run("rejects decimal places outside [0, 8]", func(t *testing.T) {
		_, err := NewAssetType("GOLD", "Gold", "", -1)
		assert.True(t, errors.IsValidation(err))
		_, err = NewAssetType("GOLD", "Gold", "", 9)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := NewAssetType("GOLD", "", "", 2)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestAssetTypeNormalize(t *testing.T) {
	at, err := NewAssetType("GOLD", "Gold", "", 2)
	require.NoError(t, err)

	rounded := at.Normalize(valueobjects.MustAmount("10.005"))
	// Banker's rounding at 2 places.
	assert.Equal(t, "10", rounded.String())

	exact := at.Normalize(valueobjects.MustAmount("10.25"))
	assert.Equal(t, "10.25", exact.String())
}

func TestAssetTypeDeactivate(t *testing.T) {
	at, err := NewAssetType("GOLD", "Gold", "", 2)
	require.NoError(t, err)

	at.Deactivate()
	assert.False(t, at.IsActive())
}
