package genexpr

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes the fitness of one scored generation
type GenerationStats struct {
	Generation    int     `json:"generation"`
	MaxFitness    float64 `json:"max_fitness"`
	MeanFitness   float64 `json:"mean_fitness"`
	StdDevFitness float64 `json:"stddev_fitness"`
	Best          string  `json:"best"`
}

// WinnerReport describes the fittest organism of the final generation
type WinnerReport struct {
	Target      float64 `json:"target"`
	Generations int     `json:"generations"`

	Chromosome     string `json:"chromosome"`
	Phenotype      string `json:"phenotype"`
	CleanPhenotype string `json:"clean_phenotype"`

	// Value of CleanPhenotype, nil if it has none
	Result  *float64 `json:"result"`
	Fitness float64  `json:"fitness"`

	// First generation in which some organism matched Target exactly
	FirstSolvedGeneration *int `json:"first_solved_generation,omitempty"`

	History []GenerationStats `json:"history,omitempty"`
}

func newGenerationStats(generation int, pop Population) GenerationStats {
	fitnesses := pop.Fitnesses()
	mean, stdDev := stat.MeanStdDev(fitnesses, nil)
	best := pop[floats.MaxIdx(fitnesses)]

	return GenerationStats{
		Generation:    generation,
		MaxFitness:    best.fitness,
		MeanFitness:   mean,
		StdDevFitness: stdDev,
		Best:          best.c.Decode().CleanPhenotype,
	}
}

func newWinnerReport(member *PopulationMember, target float64, evaluator *Evaluator) *WinnerReport {
	decoded := member.c.Decode()
	report := &WinnerReport{
		Target:         target,
		Chromosome:     member.c.String(),
		Phenotype:      decoded.Phenotype,
		CleanPhenotype: decoded.CleanPhenotype,
		Fitness:        member.fitness,
	}

	if result, err := evaluator.Evaluate(decoded.CleanPhenotype); err == nil {
		report.Result = &result
	}
	return report
}
