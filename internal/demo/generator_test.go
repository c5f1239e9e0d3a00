package demo

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_NamesHaveFourWords(t *testing.T) {
	names := NewGenerator(1).Names(20)
	require.Len(t, names, 20)
	for _, name := range names {
		parts := strings.Fields(name)
		require.Len(t, parts, 4, "name %q", name)
		assert.Contains(t, adjectives, parts[0])
		assert.Contains(t, nouns, parts[1])
		assert.Contains(t, categories, parts[2])
		assert.Contains(t, brands, parts[3])
	}
}

func TestGenerator_DeterministicPerSeed(t *testing.T) {
	a := NewGenerator(42).Names(200)
	b := NewGenerator(42).Names(200)
	c := NewGenerator(43).Names(200)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerator_SwappedVariants(t *testing.T) {
	names := NewGenerator(7).Names(100)
	require.Len(t, names, 150)
	for i := 0; i < 50; i++ {
		orig := strings.Fields(names[i])
		swapped := strings.Fields(names[100+i])
		assert.Equal(t, []string{orig[1], orig[0], orig[2], orig[3]}, swapped)
	}
}

func TestGenerator_NoVariantsBelowThreshold(t *testing.T) {
	assert.Len(t, NewGenerator(7).Names(99), 99)
	assert.Empty(t, NewGenerator(7).Names(0))
	assert.Empty(t, NewGenerator(7).Names(-3))
}

func TestGenerator_Sample(t *testing.T) {
	g := NewGenerator(3)
	names := []string{"a", "b", "c", "d"}
	got := g.Sample(names, 2)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0], got[1])
	for _, s := range got {
		assert.True(t, slices.Contains(names, s))
	}
	assert.Len(t, g.Sample(names, 10), 4)
}

func TestSwapFirstWords(t *testing.T) {
	got, ok := SwapFirstWords("premium device pro techno")
	require.True(t, ok)
	assert.Equal(t, "device premium pro techno", got)

	_, ok = SwapFirstWords("too short")
	assert.False(t, ok)
}
