package charts

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Fixed seed and init count keep cluster assignments reproducible run to run.
const (
	kmeansSeed  = 42
	kmeansInits = 10
	kmeansIters = 100
)

// standardize rescales values to zero mean and unit variance over the sample
// itself. A constant column comes back as all zeros.
func standardize(values []float64) []float64 {
	mean, std := stat.MeanStdDev(values, nil)
	out := make([]float64, len(values))
	if std == 0 || math.IsNaN(std) {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

// kmeansPartition runs Lloyd's algorithm with the given number of random
// initializations and returns the assignment with the lowest total squared
// distance. The caller guarantees len(points) >= k.
func kmeansPartition(points [][2]float64, k, inits int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))

	best := make([]int, len(points))
	bestInertia := math.Inf(1)

	for init := 0; init < inits; init++ {
		centroids := make([][2]float64, k)
		for i, idx := range rng.Perm(len(points))[:k] {
			centroids[i] = points[idx]
		}

		labels := make([]int, len(points))
		for iter := 0; iter < kmeansIters; iter++ {
			changed := false
			for i, pt := range points {
				nearest := nearestCentroid(pt, centroids)
				if labels[i] != nearest {
					labels[i] = nearest
					changed = true
				}
			}
			if !changed && iter > 0 {
				break
			}

			// Recompute centroids; an emptied cluster keeps its old one.
			sums := make([][2]float64, k)
			counts := make([]int, k)
			for i, pt := range points {
				c := labels[i]
				sums[c][0] += pt[0]
				sums[c][1] += pt[1]
				counts[c]++
			}
			for c := 0; c < k; c++ {
				if counts[c] > 0 {
					centroids[c][0] = sums[c][0] / float64(counts[c])
					centroids[c][1] = sums[c][1] / float64(counts[c])
				}
			}
		}

		inertia := 0.0
		for i, pt := range points {
			inertia += squaredDistance(pt, centroids[labels[i]])
		}
		if inertia < bestInertia {
			bestInertia = inertia
			copy(best, labels)
		}
	}

	return best
}

func nearestCentroid(pt [2]float64, centroids [][2]float64) int {
	nearest := 0
	minDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(pt, centroid); d < minDist {
			minDist = d
			nearest = c
		}
	}
	return nearest
}

func squaredDistance(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
