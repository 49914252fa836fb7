package spacedrep

import (
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/abhisek/prepdash/internal/progress"
)

// Source yields the problems eligible for practice.
type Source interface {
	SolvedProblems() iter.Seq[progress.SolvedProblem]
}

// Selector draws a previously solved problem for a practice round.
// Draws are uniform and independent of earlier draws; there is no
// weighting by recency or difficulty.
type Selector struct {
	source Source
	rng    *rand.Rand
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the random source. Tests use a seeded source.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		s.rng = r
	}
}

// NewSelector creates a Selector reading from source.
func NewSelector(source Source, opts ...Option) *Selector {
	s := &Selector{source: source}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns a random solved problem. ok is false when nothing has
// been solved yet. The source is read fresh on every call.
func (s *Selector) Generate() (problem progress.SolvedProblem, ok bool) {
	pool := slices.Collect(s.source.SolvedProblems())
	if len(pool) == 0 {
		return progress.SolvedProblem{}, false
	}
	return pool[s.intN(len(pool))], true
}

func (s *Selector) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}
