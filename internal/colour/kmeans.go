package colour

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"
)

// KMeansExtractor implements palette extraction using Lloyd's k-means with
// k-means++ seeding and several independent restarts.
type KMeansExtractor struct {
	seed          uint64
	restarts      int
	maxIterations int
	tolerance     float64
}

// NewKMeansExtractor creates a new KMeansExtractor from cfg. Restarts and
// iterations below 1 and a negative tolerance fall back to the package
// defaults. A zero tolerance runs until the centroids stop moving.
func NewKMeansExtractor(cfg ExtractorConfig) *KMeansExtractor {
	e := &KMeansExtractor{
		seed:          cfg.Seed,
		restarts:      cfg.Restarts,
		maxIterations: cfg.MaxIterations,
		tolerance:     cfg.Tolerance,
	}
	if e.restarts < 1 {
		e.restarts = DefaultRestarts
	}
	if e.maxIterations < 1 {
		e.maxIterations = DefaultMaxIterations
	}
	if e.tolerance < 0 {
		e.tolerance = DefaultTolerance
	}
	return e
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distanceSq calculates the squared Euclidean distance between two points.
func (p point3D) distanceSq(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return dr*dr + dg*dg + db*db
}

// weightedPoints is the deduplicated pixel set: each unique colour once,
// weighted by how many pixels carry it, in first-appearance order.
type weightedPoints struct {
	points  []point3D
	weights []float64
}

func dedupe(pixels []RGB) weightedPoints {
	index := make(map[RGB]int)
	var wp weightedPoints
	for _, px := range pixels {
		i, ok := index[px]
		if !ok {
			i = len(wp.points)
			index[px] = i
			wp.points = append(wp.points, point3D{R: float64(px.R), G: float64(px.G), B: float64(px.B)})
			wp.weights = append(wp.weights, 0)
		}
		wp.weights[i]++
	}
	return wp
}

// run is the outcome of a single initialisation.
type run struct {
	centroids []point3D
	labels    []int
	inertia   float64
}

// Extract partitions pixels into k clusters. Clusters are returned in the
// order their label first appears when scanning pixels; clusters that
// received no pixels (possible only when the image has fewer unique
// colours than k) follow at the end with a zero count.
func (e *KMeansExtractor) Extract(ctx context.Context, pixels []RGB, k int) ([]Cluster, error) {
	if err := validateCount(k, len(pixels)); err != nil {
		return nil, err
	}

	wp := dedupe(pixels)
	tol := e.tolerance * meanVariance(wp)

	runs := make([]run, e.restarts)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range e.restarts {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(e.seed, uint64(i)))
			r, err := e.lloyd(gctx, wp, k, tol, rng)
			if err != nil {
				return err
			}
			runs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: clustering aborted: %w", ErrResourceExceeded, err)
	}

	best := 0
	for i := 1; i < len(runs); i++ {
		if runs[i].inertia < runs[best].inertia {
			best = i
		}
	}

	return buildClusters(wp, runs[best], k), nil
}

// lloyd runs one seeded k-means from a k-means++ initialisation.
func (e *KMeansExtractor) lloyd(ctx context.Context, wp weightedPoints, k int, tol float64, rng *rand.Rand) (run, error) {
	centroids, err := initKMeansPlusPlus(ctx, wp, k, rng)
	if err != nil {
		return run{}, err
	}

	labels := make([]int, len(wp.points))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < e.maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return run{}, err
		}

		if changed := assign(wp.points, centroids, labels); changed == 0 {
			break
		}

		next := recalculateCentroids(wp, labels, centroids)
		shift := 0.0
		for i := range centroids {
			shift += centroids[i].distanceSq(next[i])
		}
		centroids = next
		if shift <= tol {
			break
		}
	}

	// Labels must agree with the final centroids.
	assign(wp.points, centroids, labels)

	inertia := 0.0
	for i, p := range wp.points {
		inertia += wp.weights[i] * p.distanceSq(centroids[labels[i]])
	}
	return run{centroids: centroids, labels: labels, inertia: inertia}, nil
}

// initKMeansPlusPlus chooses k initial centroids with greedy k-means++:
// each step samples several candidates proportional to weighted squared
// distance and keeps the one that lowers total potential the most.
func initKMeansPlusPlus(ctx context.Context, wp weightedPoints, k int, rng *rand.Rand) ([]point3D, error) {
	n := len(wp.points)
	trials := 2 + int(math.Log(float64(k)))

	centroids := make([]point3D, 0, k)
	centroids = append(centroids, wp.points[sampleWeighted(wp.weights, rng)])

	closest := make([]float64, n)
	potential := 0.0
	for i, p := range wp.points {
		closest[i] = p.distanceSq(centroids[0])
		potential += wp.weights[i] * closest[i]
	}

	cumulative := make([]float64, n)
	candidateDist := make([]float64, n)
	bestDist := make([]float64, n)

	for len(centroids) < k {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sum := 0.0
		for i := range closest {
			sum += wp.weights[i] * closest[i]
			cumulative[i] = sum
		}

		bestIdx, bestPotential := -1, math.Inf(1)
		for range trials {
			target := rng.Float64() * potential
			idx := min(sort.SearchFloat64s(cumulative, target), n-1)

			pot := 0.0
			for i, p := range wp.points {
				candidateDist[i] = min(closest[i], p.distanceSq(wp.points[idx]))
				pot += wp.weights[i] * candidateDist[i]
			}
			if pot < bestPotential {
				bestIdx, bestPotential = idx, pot
				copy(bestDist, candidateDist)
			}
		}

		centroids = append(centroids, wp.points[bestIdx])
		copy(closest, bestDist)
		potential = bestPotential
	}

	return centroids, nil
}

// sampleWeighted draws an index with probability proportional to its weight.
func sampleWeighted(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	target := rng.Float64() * total
	for i, w := range weights {
		target -= w
		if target < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// assign labels every point with its nearest centroid, lowest index on
// ties, and reports how many labels changed.
func assign(points, centroids []point3D, labels []int) int {
	changed := 0
	for i, p := range points {
		nearest, minDist := 0, math.Inf(1)
		for j, c := range centroids {
			if d := p.distanceSq(c); d < minDist {
				nearest, minDist = j, d
			}
		}
		if labels[i] != nearest {
			labels[i] = nearest
			changed++
		}
	}
	return changed
}

// recalculateCentroids returns the weighted mean of each cluster. Empty
// clusters are moved to the points lying farthest from their current
// centroid; if no such point remains the old centroid is kept.
func recalculateCentroids(wp weightedPoints, labels []int, current []point3D) []point3D {
	k := len(current)
	sums := make([]point3D, k)
	mass := make([]float64, k)
	for i, p := range wp.points {
		c, w := labels[i], wp.weights[i]
		sums[c].R += w * p.R
		sums[c].G += w * p.G
		sums[c].B += w * p.B
		mass[c] += w
	}

	next := make([]point3D, k)
	var empty []int
	for i := range k {
		if mass[i] == 0 {
			empty = append(empty, i)
			next[i] = current[i]
			continue
		}
		next[i] = point3D{R: sums[i].R / mass[i], G: sums[i].G / mass[i], B: sums[i].B / mass[i]}
	}
	if len(empty) == 0 {
		return next
	}

	far := make([]int, len(wp.points))
	for i := range far {
		far[i] = i
	}
	dist := func(i int) float64 { return wp.points[i].distanceSq(current[labels[i]]) }
	slices.SortStableFunc(far, func(a, b int) int {
		da, db := dist(a), dist(b)
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		default:
			return 0
		}
	})

	for j, c := range empty {
		if j >= len(far) || dist(far[j]) == 0 {
			break
		}
		next[c] = wp.points[far[j]]
	}
	return next
}

// meanVariance is the weighted variance averaged over the three channels.
func meanVariance(wp weightedPoints) float64 {
	var total float64
	var mean point3D
	for i, p := range wp.points {
		w := wp.weights[i]
		mean.R += w * p.R
		mean.G += w * p.G
		mean.B += w * p.B
		total += w
	}
	mean = point3D{R: mean.R / total, G: mean.G / total, B: mean.B / total}

	variance := 0.0
	for i, p := range wp.points {
		variance += wp.weights[i] * p.distanceSq(mean)
	}
	return variance / total / 3
}

// buildClusters converts a finished run into clusters ordered by first
// label appearance.
func buildClusters(wp weightedPoints, r run, k int) []Cluster {
	counts := make([]int, k)
	order := make([]int, 0, k)
	seen := make([]bool, k)
	for i, label := range r.labels {
		counts[label] += int(wp.weights[i])
		if !seen[label] {
			seen[label] = true
			order = append(order, label)
		}
	}
	for label := range k {
		if !seen[label] {
			order = append(order, label)
		}
	}

	clusters := make([]Cluster, k)
	for i, label := range order {
		c := r.centroids[label]
		clusters[i] = Cluster{
			Centroid: RGB{R: roundChannel(c.R), G: roundChannel(c.G), B: roundChannel(c.B)},
			Count:    counts[label],
		}
	}
	return clusters
}

// roundChannel rounds half to even and clamps to [0,255].
func roundChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.RoundToEven(v))))
}
