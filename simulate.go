package tokencount

import (
	"errors"
	"fmt"
)

// MaxSimulatedPopulation caps Simulate; past it the memoized Counter is the only option.
const MaxSimulatedPopulation = 1 << 24

// Simulate expands the multiset generation by generation and returns its final size.
// It is exponential in steps and only meant for small runs and cross-checks.
func Simulate(tokens []Token, steps uint32) (uint64, error) {
	cur := append([]Token(nil), tokens...)
	next := make([]Token, 0, 2*len(cur))

	for g := uint32(0); g < steps; g++ {
		next = next[:0]
		for _, t := range cur {
			succ, err := Evaluate(t)
			if err != nil {
				var oe *OverflowError
				if errors.As(err, &oe) {
					oe.Steps = steps - g
				}
				return 0, err
			}
			next = append(next, succ...)
		}
		if len(next) > MaxSimulatedPopulation {
			return 0, fmt.Errorf("%w: %d tokens after %d generations", ErrPopulationLimit, len(next), g+1)
		}
		cur, next = next, cur
	}
	return uint64(len(cur)), nil
}
