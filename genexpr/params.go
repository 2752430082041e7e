package genexpr

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParams = errors.New("invalid simulation params")

type SimulationParams struct {
	// Number of genes each Chromosome will have. Chromosomes alternate digit and
	// operator genes, starting and ending with a digit, so this must be odd.
	ChromosomeSize int

	// Number of Chromosomes in each generation.
	// Must be a multiple of 2.
	PopulationSize int

	// Probability that two selected parents swap their tails at a random gene
	CrossoverRate float64

	// Probability that any single bit flips when a child is produced
	MutationRate float64

	// Number of generations to breed before the winner is chosen
	GenerationLimit int

	// Value the evaluated expressions should approach
	Target float64

	// Number of evaluated expressions to remember. Set to 0 to disable caching.
	EvaluationCacheSize int

	// Generations between progress lines, when a log is attached. Set to 0 to
	// only log the start and the winner.
	LogInterval int
}

// Validate rejects params the Simulation cannot run with
func (p *SimulationParams) Validate() error {
	switch {
	case p.PopulationSize <= 0 || p.PopulationSize%2 != 0:
		return fmt.Errorf("%w: PopulationSize must be a positive even number, got %d", ErrInvalidParams, p.PopulationSize)
	case !isProbability(p.CrossoverRate):
		return fmt.Errorf("%w: CrossoverRate must be within [0, 1], got %v", ErrInvalidParams, p.CrossoverRate)
	case !isProbability(p.MutationRate):
		return fmt.Errorf("%w: MutationRate must be within [0, 1], got %v", ErrInvalidParams, p.MutationRate)
	case p.GenerationLimit < 0:
		return fmt.Errorf("%w: GenerationLimit must not be negative, got %d", ErrInvalidParams, p.GenerationLimit)
	case p.ChromosomeSize < 1 || p.ChromosomeSize%2 == 0:
		return fmt.Errorf("%w: ChromosomeSize must be a positive odd number (digit genes = operator genes + 1), got %d", ErrInvalidParams, p.ChromosomeSize)
	case math.IsNaN(p.Target) || math.IsInf(p.Target, 0):
		return fmt.Errorf("%w: Target must be finite, got %v", ErrInvalidParams, p.Target)
	case p.EvaluationCacheSize < 0:
		return fmt.Errorf("%w: EvaluationCacheSize must not be negative, got %d", ErrInvalidParams, p.EvaluationCacheSize)
	case p.LogInterval < 0:
		return fmt.Errorf("%w: LogInterval must not be negative, got %d", ErrInvalidParams, p.LogInterval)
	}
	return nil
}

func isProbability(rate float64) bool {
	return rate >= 0 && rate <= 1
}
