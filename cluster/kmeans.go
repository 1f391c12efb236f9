// Package cluster assigns rows of a numeric matrix to K groups.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultSeed makes repeated runs over the same data return the same labels.
const DefaultSeed = 42

const (
	maxIterations = 300
	tolerance     = 1e-4
)

// KMeans partitions points into k clusters using k-means++ seeding and
// Lloyd iterations. It returns one label per point in [0, k).
func KMeans(points [][]float64, k int, seed int64) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(points) < k {
		return nil, fmt.Errorf("need at least %d rows for k=%d, got %d", k, k, len(points))
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(p), dim)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	centers := seedCenters(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < maxIterations; iter++ {
		for i, p := range points {
			labels[i] = nearest(p, centers)
		}

		next := recompute(points, labels, centers)
		shift := 0.0
		for c := range centers {
			shift += sqDist(centers[c], next[c])
		}
		centers = next
		if shift <= tolerance*tolerance {
			break
		}
	}

	for i, p := range points {
		labels[i] = nearest(p, centers)
	}
	return labels, nil
}

// Counts returns the number of points per label, indexed by label.
func Counts(labels []int, k int) []int {
	out := make([]int, k)
	for _, l := range labels {
		if l >= 0 && l < k {
			out[l]++
		}
	}
	return out
}

func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centers) < k {
		total := 0.0
		for i, p := range points {
			dist[i] = sqDist(p, centers[nearest(p, centers)])
			total += dist[i]
		}
		if total == 0 {
			// Fewer distinct points than k; reuse one.
			centers = append(centers, clone(points[rng.Intn(len(points))]))
			continue
		}

		target := rng.Float64() * total
		pick := len(points) - 1
		for i, d := range dist {
			target -= d
			if target <= 0 {
				pick = i
				break
			}
		}
		centers = append(centers, clone(points[pick]))
	}
	return centers
}

func recompute(points [][]float64, labels []int, prev [][]float64) [][]float64 {
	dim := len(points[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		l := labels[i]
		counts[l]++
		for d, v := range p {
			sums[l][d] += v
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			// Empty cluster keeps its previous center.
			sums[c] = clone(prev[c])
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
	}
	return sums
}

func nearest(p []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := sqDist(p, center); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
