// Package sampler draws non-negative integers from a normal distribution and
// enumerates them over the one_core and many_core experiment shapes.
package sampler

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// MaxAttempts bounds the rejection loop in NonNegativeInt.
const MaxAttempts = 10000

// ErrRejectionLimit is returned when MaxAttempts draws in a row were negative.
var ErrRejectionLimit = errors.New("rejection sampling limit reached")

// Sampler owns a single random stream. It is not safe for concurrent use.
type Sampler struct {
	src  rand.Source
	seed uint64
}

// New returns a Sampler whose stream is fully determined by seed.
func New(seed uint64) *Sampler {
	return &Sampler{
		src:  rand.NewSource(seed),
		seed: seed,
	}
}

// NewUnseeded returns a Sampler seeded from the wall clock.
func NewUnseeded() *Sampler {
	return New(uint64(time.Now().UnixNano()))
}

// Seed reports the seed the stream started from.
func (s *Sampler) Seed() uint64 {
	return s.seed
}

// NonNegativeInt draws from Normal(mean, stddev), truncates toward zero and
// resamples until the result is non-negative.
func (s *Sampler) NonNegativeInt(mean, stddev float64) (int, error) {
	dist := distuv.Normal{
		Mu:    mean,
		Sigma: stddev,
		Src:   s.src,
	}
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		// Truncation happens before the sign check, so draws in (-1, 0) yield 0.
		if v := int(dist.Rand()); v >= 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("normal(mu=%g, sigma=%g) after %d attempts: %w", mean, stddev, MaxAttempts, ErrRejectionLimit)
}

// Params returns the distribution parameters for a scale factor: the mean is
// the scale factor and the deviation is a tenth of it, rounded down.
func Params(scaleFactor int) (mean, stddev float64) {
	return float64(scaleFactor), float64(scaleFactor / 10)
}
