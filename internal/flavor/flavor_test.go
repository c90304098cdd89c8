package flavor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlavorString(t *testing.T) {
	assert.Equal(t, "vanilla", Vanilla.String())
	assert.Equal(t, "paper", Paper.String())
	assert.Equal(t, "flavor(7)", Flavor(7).String())
}

func TestParseRoundTrip(t *testing.T) {
	for _, f := range All() {
		got, err := Parse(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.True(t, got.Valid())
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("forge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forge")
	assert.False(t, Flavor(42).Valid())
}

func TestFromPaperFlag(t *testing.T) {
	assert.Equal(t, Paper, FromPaperFlag(true))
	assert.Equal(t, Vanilla, FromPaperFlag(false))
}
