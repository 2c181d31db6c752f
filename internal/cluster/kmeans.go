package cluster

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// KMeansConfig holds k-means settings.
type KMeansConfig struct {
	// Seed makes initialisation reproducible.
	Seed uint64

	// MaxIter bounds Lloyd iterations per restart.
	MaxIter int

	// Tolerance stops a restart once the summed squared centroid movement
	// drops to or below it.
	Tolerance float64

	// Restarts is the number of k-means++ initialisations tried; the one
	// with the lowest inertia wins.
	Restarts int
}

// DefaultKMeansConfig returns the standard settings.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		Seed:      42,
		MaxIter:   300,
		Tolerance: 1e-4,
		Restarts:  10,
	}
}

// KMeans is a Lloyd's-algorithm Partitioner with k-means++ seeding.
// Labels are numbered by centroid order (first coordinate, then the next),
// so the same input always yields the same labels.
type KMeans struct {
	cfg KMeansConfig
}

// NewKMeans creates a KMeans partitioner.
func NewKMeans(cfg KMeansConfig) *KMeans {
	if cfg.MaxIter < 1 {
		cfg.MaxIter = 1
	}
	if cfg.Restarts < 1 {
		cfg.Restarts = 1
	}
	return &KMeans{cfg: cfg}
}

var _ Partitioner = (*KMeans)(nil)

// Partition implements Partitioner.
func (km *KMeans) Partition(points [][]float64, k int) ([]int, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(points) < k {
		return nil, ErrTooFewPoints
	}
	for _, p := range points[1:] {
		if len(p) != len(points[0]) {
			return nil, ErrDimensionMixed
		}
	}

	// A fresh generator per call keeps results independent of call order.
	rng := rand.New(rand.NewPCG(km.cfg.Seed, km.cfg.Seed^0x9e3779b97f4a7c15))

	var (
		bestLabels    []int
		bestCentroids [][]float64
		bestInertia   = math.Inf(1)
	)
	for range km.cfg.Restarts {
		centroids := seedPlusPlus(points, k, rng)
		labels, centroids, inertia := km.lloyd(points, centroids)
		if inertia < bestInertia {
			bestLabels, bestCentroids, bestInertia = labels, centroids, inertia
		}
	}

	return relabel(bestLabels, bestCentroids), nil
}

// lloyd refines centroids until they settle or MaxIter is hit, then
// returns the final assignment and its inertia.
func (km *KMeans) lloyd(points, centroids [][]float64) ([]int, [][]float64, float64) {
	for range km.cfg.MaxIter {
		labels, _ := assign(points, centroids)
		next := means(points, labels, centroids)

		var shift float64
		for i := range centroids {
			d := floats.Distance(centroids[i], next[i], 2)
			shift += d * d
		}
		centroids = next
		if shift <= km.cfg.Tolerance {
			break
		}
	}
	labels, inertia := assign(points, centroids)
	return labels, centroids, inertia
}

// seedPlusPlus picks k initial centroids, each new one sampled with
// probability proportional to its squared distance from the nearest
// centroid chosen so far.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, slices.Clone(points[rng.IntN(len(points))]))

	dist := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			dist[i] = math.Inf(1)
			for _, c := range centroids {
				d := floats.Distance(p, c, 2)
				dist[i] = min(dist[i], d*d)
			}
			total += dist[i]
		}

		next := rng.IntN(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dist {
				if d == 0 {
					continue
				}
				// If rounding leaves target >= 0, the last candidate wins.
				next = i
				target -= d
				if target < 0 {
					break
				}
			}
		}
		centroids = append(centroids, slices.Clone(points[next]))
	}
	return centroids
}

// assign labels each point with its nearest centroid (lowest index on
// ties) and returns the summed squared distances.
func assign(points, centroids [][]float64) ([]int, float64) {
	labels := make([]int, len(points))
	var inertia float64
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for j, c := range centroids {
			if d := floats.Distance(p, c, 2); d < bestDist {
				best, bestDist = j, d
			}
		}
		labels[i] = best
		inertia += bestDist * bestDist
	}
	return labels, inertia
}

// means recomputes centroids from the current labels. An empty cluster
// keeps its previous centroid.
func means(points [][]float64, labels []int, prev [][]float64) [][]float64 {
	dim := len(points[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for i := range sums {
		sums[i] = make([]float64, dim)
	}
	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}

	next := make([][]float64, len(prev))
	for i := range sums {
		if counts[i] == 0 {
			next[i] = slices.Clone(prev[i])
			continue
		}
		floats.Scale(1/float64(counts[i]), sums[i])
		next[i] = sums[i]
	}
	return next
}

// relabel renumbers labels so cluster 0 has the lexicographically
// smallest centroid.
func relabel(labels []int, centroids [][]float64) []int {
	order := make([]int, len(centroids))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return slices.Compare(centroids[a], centroids[b])
	})

	rank := make([]int, len(centroids))
	for newLabel, old := range order {
		rank[old] = newLabel
	}

	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = rank[l]
	}
	return out
}
