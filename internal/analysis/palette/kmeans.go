package palette

import (
	"math"
	"math/rand/v2"
	"sort"
)

// Cluster is one k-means centroid and the share of samples assigned to it.
type Cluster struct {
	Centroid [3]float64
	Count    int
	Weight   float64
}

// RGB returns the centroid clamped to [0,255] and rounded.
func (c Cluster) RGB() [3]uint8 {
	var out [3]uint8
	for i, v := range c.Centroid {
		out[i] = uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	return out
}

// Quantizer runs k-means with farthest-point seeding. The first seed is a
// random sample unless a fixed seed index is configured.
type Quantizer struct {
	rng       *rand.Rand
	seedIndex int
}

// NewQuantizer creates a quantizer whose first seed is drawn from a PCG
// stream initialised with seed.
func NewQuantizer(seed uint64) *Quantizer {
	return &Quantizer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seedIndex: -1}
}

// NewFixedQuantizer always seeds from samples[index % n].
func NewFixedQuantizer(index int) *Quantizer {
	if index < 0 {
		index = 0
	}
	return &Quantizer{seedIndex: index}
}

// Quantize clusters samples into k colors with a fixed number of Lloyd
// passes and returns clusters sorted by descending weight.
func (q *Quantizer) Quantize(samples []PixelSample, k, iterations int) []Cluster {
	n := len(samples)
	if n == 0 || k <= 0 {
		return nil
	}
	first := q.seedIndex
	if first < 0 {
		first = q.rng.IntN(n)
	}
	return kmeans(samples, k, iterations, first%n)
}

func kmeans(samples []PixelSample, k, iterations, first int) []Cluster {
	n := len(samples)
	centers := seedFarthest(samples, k, first)

	assign := make([]int, n)
	for it := 0; it < iterations; it++ {
		for i, s := range samples {
			assign[i] = nearest(centers, s)
		}

		sums := make([][4]float64, k)
		for i, s := range samples {
			a := assign[i]
			sums[a][0] += float64(s[0])
			sums[a][1] += float64(s[1])
			sums[a][2] += float64(s[2])
			sums[a][3]++
		}
		for j := range centers {
			if cnt := sums[j][3]; cnt > 0 {
				centers[j] = [3]float64{sums[j][0] / cnt, sums[j][1] / cnt, sums[j][2] / cnt}
			}
		}
	}

	// Counts come from the last assignment pass.
	if iterations <= 0 {
		for i, s := range samples {
			assign[i] = nearest(centers, s)
		}
	}
	counts := make([]int, k)
	for _, a := range assign {
		counts[a]++
	}

	clusters := make([]Cluster, k)
	for j := range clusters {
		clusters[j] = Cluster{
			Centroid: clampCentroid(centers[j]),
			Count:    counts[j],
			Weight:   float64(counts[j]) / float64(n),
		}
	}
	sort.SliceStable(clusters, func(a, b int) bool { return clusters[a].Weight > clusters[b].Weight })
	return clusters
}

// seedFarthest picks samples[first], then repeatedly the sample whose
// minimum squared distance to the chosen centers is largest.
func seedFarthest(samples []PixelSample, k, first int) [][3]float64 {
	centers := make([][3]float64, 0, k)
	centers = append(centers, toPoint(samples[first]))
	for len(centers) < k {
		farIdx, farDist := 0, -1.0
		for i, s := range samples {
			dmin := math.Inf(1)
			for _, c := range centers {
				if d := dist2(c, s); d < dmin {
					dmin = d
				}
			}
			if dmin > farDist {
				farDist, farIdx = dmin, i
			}
		}
		centers = append(centers, toPoint(samples[farIdx]))
	}
	return centers
}

func nearest(centers [][3]float64, s PixelSample) int {
	best, bd := 0, math.Inf(1)
	for j, c := range centers {
		if d := dist2(c, s); d < bd {
			bd, best = d, j
		}
	}
	return best
}

func dist2(c [3]float64, s PixelSample) float64 {
	dr := float64(s[0]) - c[0]
	dg := float64(s[1]) - c[1]
	db := float64(s[2]) - c[2]
	return dr*dr + dg*dg + db*db
}

func toPoint(s PixelSample) [3]float64 {
	return [3]float64{float64(s[0]), float64(s[1]), float64(s[2])}
}

func clampCentroid(c [3]float64) [3]float64 {
	for i := range c {
		c[i] = math.Max(0, math.Min(255, c[i]))
	}
	return c
}
