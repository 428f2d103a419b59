package charttheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContrastRatio(t *testing.T) {
	t.Parallel()

	ratio, err := ContrastRatio("#000000", "#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 21.0, ratio, 0.01)

	ratio, err = ContrastRatio("#ffffff", "#000000")
	require.NoError(t, err)
	assert.InDelta(t, 21.0, ratio, 0.01)

	ratio, err = ContrastRatio("#3b82f6", "#3b82f6")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 0.0001)

	_, err = ContrastRatio("rgba(0, 0, 0, 0.1)", "#ffffff")
	assert.Error(t, err)
}

func TestLowContrast(t *testing.T) {
	t.Parallel()

	p := Dark()
	assert.Empty(t, p.LowContrast(1))
	assert.Equal(t, p.Primary, p.LowContrast(21.5))

	p.Primary = []string{"#ffffff", "not-a-color"}
	p.Background = "#ffffff"
	assert.Equal(t, []string{"#ffffff", "not-a-color"}, p.LowContrast(1.5))
}
