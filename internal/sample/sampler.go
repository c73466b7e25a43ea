package sample

import (
	"math"
	"math/rand"
	"sort"
)

// Sampler wraps a single seeded source. All randomness of a generation run
// flows through one Sampler so that the draw order is fixed and re-running
// with the same seed reproduces the output exactly. Batch methods sample a
// whole column of values at once; callers should draw per stage, not per row.
type Sampler struct {
	rng *rand.Rand
}

// New creates a sampler with a deterministic source.
func New(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n).
func (s *Sampler) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// IntBetween returns a uniform int in [lo, hi] inclusive.
func (s *Sampler) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// IntsBetween returns n uniform ints in [lo, hi] inclusive.
func (s *Sampler) IntsBetween(n, lo, hi int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = s.IntBetween(lo, hi)
	}
	return out
}

// Uniform returns a uniform float in [lo, hi).
func (s *Sampler) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Uniforms returns n uniform floats in [lo, hi).
func (s *Sampler) Uniforms(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Uniform(lo, hi)
	}
	return out
}

// Poisson draws from a Poisson distribution with the given mean using
// Knuth's product method. Fine for the small means used here.
func (s *Sampler) Poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}
	limit := math.Exp(-mean)
	product := s.rng.Float64()
	count := 0
	for product > limit {
		count++
		product *= s.rng.Float64()
	}
	return count
}

// PoissonMin returns n Poisson draws clamped to at least min.
func (s *Sampler) PoissonMin(n int, mean float64, min int) []int {
	out := make([]int, n)
	for i := range out {
		v := s.Poisson(mean)
		if v < min {
			v = min
		}
		out[i] = v
	}
	return out
}

// LogNormal draws from a lognormal distribution with the given log-space
// mean and standard deviation.
func (s *Sampler) LogNormal(mu, sigma float64) float64 {
	return math.Exp(s.rng.NormFloat64()*sigma + mu)
}

// LogNormals returns n lognormal draws.
func (s *Sampler) LogNormals(n int, mu, sigma float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.LogNormal(mu, sigma)
	}
	return out
}

// WeightedIndex draws an index according to the given weights. Weights need
// not sum to one; non-positive weight sums fall back to a uniform draw.
func (s *Sampler) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return s.Intn(len(weights))
	}
	target := s.rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

// WeightedIndexes returns n index draws according to the given weights.
func (s *Sampler) WeightedIndexes(n int, weights []float64) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = s.WeightedIndex(weights)
	}
	return out
}

// WeightedChoice draws one option according to the given weights.
func (s *Sampler) WeightedChoice(options []string, weights []float64) string {
	return options[s.WeightedIndex(weights)]
}

// Choice draws one option uniformly.
func (s *Sampler) Choice(options []string) string {
	return options[s.Intn(len(options))]
}

// Choices draws n options uniformly with replacement.
func (s *Sampler) Choices(n int, options []string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.Choice(options)
	}
	return out
}

// WeightedChoices draws n options with replacement.
func (s *Sampler) WeightedChoices(n int, options []string, weights []float64) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.WeightedChoice(options, weights)
	}
	return out
}

// Indexes returns n uniform indexes in [0, size) with replacement.
func (s *Sampler) Indexes(n, size int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = s.Intn(size)
	}
	return out
}

// WithoutReplacement picks k distinct indexes from [0, n) and returns them
// in ascending order, preserving the natural order of the sampled rows.
func (s *Sampler) WithoutReplacement(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	perm := s.rng.Perm(n)
	picked := append([]int(nil), perm[:k]...)
	sort.Ints(picked)
	return picked
}
