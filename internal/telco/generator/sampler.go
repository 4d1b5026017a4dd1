package generator

import (
	"math"
	"math/rand/v2"

	"github.com/brianvoe/gofakeit/v7"
	"gonum.org/v1/gonum/stat/distuv"
)

// streamSalt decorrelates the faker stream from the numeric stream.
const streamSalt = 0x9e3779b97f4a7c15

// sampler draws every random value of a run from seeded streams.
type sampler struct {
	src   rand.Source
	rng   *rand.Rand
	faker *gofakeit.Faker
}

func newSampler(seed uint64) *sampler {
	src := rand.NewPCG(seed, seed^streamSalt)
	return &sampler{
		src:   src,
		rng:   rand.New(src),
		faker: gofakeit.NewFaker(rand.NewPCG(seed^streamSalt, seed), false),
	}
}

func (s *sampler) pick(w weighted) string {
	idx := int(distuv.NewCategorical(w.weights, s.src).Rand())
	return w.values[idx]
}

// intRange is uniform over [min, max).
func (s *sampler) intRange(min, max int) int {
	return min + s.rng.IntN(max-min)
}

func (s *sampler) chance(p float64) bool {
	return s.rng.Float64() < p
}

func (s *sampler) normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand()
}

// gamma takes numpy's (shape, scale) parameterisation.
func (s *sampler) gamma(shape, scale float64) float64 {
	return distuv.Gamma{Alpha: shape, Beta: 1 / scale, Src: s.src}.Rand()
}

func (s *sampler) beta(a, b float64) float64 {
	return distuv.Beta{Alpha: a, Beta: b, Src: s.src}.Rand()
}

func (s *sampler) poisson(lambda float64) int {
	return int(distuv.Poisson{Lambda: lambda, Src: s.src}.Rand())
}

func (s *sampler) uniform(min, max float64) float64 {
	return distuv.Uniform{Min: min, Max: max, Src: s.src}.Rand()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
