package sample

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedReproducesDraws(t *testing.T) {
	a := New(7)
	b := New(7)

	assert.Equal(t, a.IntsBetween(100, 1, 50), b.IntsBetween(100, 1, 50))
	assert.Equal(t, a.Uniforms(100, 0, 1), b.Uniforms(100, 0, 1))
	assert.Equal(t, a.LogNormals(100, 3, 1.2), b.LogNormals(100, 3, 1.2))
	assert.Equal(t, a.WithoutReplacement(50, 20), b.WithoutReplacement(50, 20))
}

func TestIntBetweenIsInclusive(t *testing.T) {
	s := New(1)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := s.IntBetween(1, 3)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 3)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
}

func TestPoissonMinClampsToFloor(t *testing.T) {
	s := New(2)
	for _, v := range s.PoissonMin(500, 0.1, 1) {
		require.GreaterOrEqual(t, v, 1)
	}
}

func TestWeightedIndexHonorsZeroWeights(t *testing.T) {
	s := New(3)
	weights := []float64{0, 1, 0}
	for i := 0; i < 200; i++ {
		require.Equal(t, 1, s.WeightedIndex(weights))
	}
}

func TestWeightedIndexesFollowWeights(t *testing.T) {
	s := New(9)
	idxs := s.WeightedIndexes(1000, []float64{0.9, 0.1})
	require.Len(t, idxs, 1000)

	heavy := 0
	for _, idx := range idxs {
		require.GreaterOrEqual(t, idx, 0)
		require.LessOrEqual(t, idx, 1)
		if idx == 0 {
			heavy++
		}
	}
	assert.Greater(t, heavy, 700)
}

func TestWithoutReplacementIsDistinctAndAscending(t *testing.T) {
	s := New(4)
	picked := s.WithoutReplacement(100, 40)
	require.Len(t, picked, 40)
	require.True(t, sort.IntsAreSorted(picked))

	seen := make(map[int]bool)
	for _, v := range picked {
		require.False(t, seen[v])
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 100)
		seen[v] = true
	}
}

func TestWithoutReplacementClampsToPopulation(t *testing.T) {
	s := New(5)
	assert.Len(t, s.WithoutReplacement(3, 10), 3)
	assert.Nil(t, s.WithoutReplacement(3, 0))
}
