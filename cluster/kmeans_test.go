package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blobs() [][]float64 {
	return [][]float64{
		{1, 1}, {1.2, 0.8}, {0.9, 1.1},
		{10, 10}, {10.1, 9.8}, {9.7, 10.2},
		{-8, 5}, {-8.2, 5.1}, {-7.9, 4.8},
	}
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	labels, err := KMeans(blobs(), 3, DefaultSeed)
	require.NoError(t, err)
	require.Len(t, labels, 9)

	for g := 0; g < 3; g++ {
		base := labels[g*3]
		assert.Equal(t, base, labels[g*3+1])
		assert.Equal(t, base, labels[g*3+2])
	}
	assert.NotEqual(t, labels[0], labels[3])
	assert.NotEqual(t, labels[3], labels[6])
	assert.NotEqual(t, labels[0], labels[6])
	assert.Equal(t, []int{3, 3, 3}, Counts(labels, 3))
}

func TestKMeansDeterministic(t *testing.T) {
	a, err := KMeans(blobs(), 4, DefaultSeed)
	require.NoError(t, err)
	b, err := KMeans(blobs(), 4, DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKMeansDuplicatePoints(t *testing.T) {
	labels, err := KMeans([][]float64{{1, 1}, {1, 1}, {1, 1}}, 2, DefaultSeed)
	require.NoError(t, err)
	assert.Len(t, labels, 3)
}

func TestKMeansErrors(t *testing.T) {
	_, err := KMeans(blobs()[:2], 3, DefaultSeed)
	assert.Error(t, err)

	_, err = KMeans(blobs(), 0, DefaultSeed)
	assert.Error(t, err)

	_, err = KMeans([][]float64{{1, 2}, {3}}, 2, DefaultSeed)
	assert.Error(t, err)
}
