package genexpr

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
)

type Simulation struct {
	params    SimulationParams
	evaluator *Evaluator
	rng       *rand.Rand
	log       io.Writer

	generation int
	population []*Chromosome

	history  []GenerationStats
	solvedAt *int
}

type Population []*PopulationMember

type PopulationMember struct {
	c       *Chromosome
	fitness float64
}

func (member *PopulationMember) Chromosome() *Chromosome {
	return member.c
}

func (member *PopulationMember) Fitness() float64 {
	return member.fitness
}

func (pop Population) Fitnesses() []float64 {
	fitnesses := make([]float64, len(pop))
	for i, member := range pop {
		fitnesses[i] = member.fitness
	}
	return fitnesses
}

// Winner returns the fittest member, the earliest one on ties
func (pop Population) Winner() *PopulationMember {
	return pop[floats.MaxIdx(pop.Fitnesses())]
}

// SelectWithRand picks a member with probability proportional to its fitness
func (pop Population) SelectWithRand(rng *rand.Rand) *PopulationMember {
	return newRouletteWheel(pop).Spin(rng)
}

type rouletteWheel struct {
	pop        Population
	fitnesses  []float64
	cumulative []float64
}

func newRouletteWheel(pop Population) *rouletteWheel {
	fitnesses := pop.Fitnesses()
	return &rouletteWheel{
		pop:        pop,
		fitnesses:  fitnesses,
		cumulative: floats.CumSum(make([]float64, len(fitnesses)), fitnesses),
	}
}

func (w *rouletteWheel) total() float64 {
	return w.cumulative[len(w.cumulative)-1]
}

func (w *rouletteWheel) Spin(rng *rand.Rand) *PopulationMember {
	return w.pop[w.index(rng.Float64()*w.total())]
}

// index finds the first member with positive fitness whose cumulative fitness
// reaches pick. If there is none (e.g. all fitnesses are 0.0), the last member
// is chosen.
func (w *rouletteWheel) index(pick float64) int {
	for i, current := range w.cumulative {
		if w.fitnesses[i] > 0 && current >= pick {
			return i
		}
	}
	return len(w.cumulative) - 1
}

// NewSimulation validates params and creates the initial random Population.
// A nil rng is replaced by one seeded from the clock.
func NewSimulation(params *SimulationParams, rng *rand.Rand) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	evaluator, err := NewEvaluator(params.EvaluationCacheSize)
	if err != nil {
		return nil, err
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	sim := &Simulation{
		params:    *params,
		evaluator: evaluator,
		rng:       rng,
	}
	sim.Init()
	return sim, nil
}

// Run breeds a Simulation for params.GenerationLimit generations and reports the winner
func Run(params *SimulationParams, rng *rand.Rand) (*WinnerReport, error) {
	sim, err := NewSimulation(params, rng)
	if err != nil {
		return nil, err
	}
	return sim.Run(), nil
}

// SetLog attaches a writer for progress output. nil silences the Simulation.
func (sim *Simulation) SetLog(w io.Writer) {
	sim.log = w
}

func (sim *Simulation) logf(format string, args ...interface{}) {
	if sim.log != nil {
		fmt.Fprintf(sim.log, format, args...)
	}
}

// Init replaces the population with random Chromosomes and rewinds to generation 0
func (sim *Simulation) Init() {
	chromosomes := make([]*Chromosome, sim.params.PopulationSize)
	for i := range chromosomes {
		chromosomes[i] = RandomChromosome(sim.params.ChromosomeSize, sim.rng)
	}
	sim.reset(chromosomes)
}

// InitFromChromosomes replaces the population with copies of chromosomes and
// rewinds to generation 0
func (sim *Simulation) InitFromChromosomes(chromosomes []*Chromosome) error {
	if len(chromosomes) != sim.params.PopulationSize {
		return fmt.Errorf("%w: expected %d chromosomes, got %d", ErrInvalidParams, sim.params.PopulationSize, len(chromosomes))
	}

	copied := make([]*Chromosome, len(chromosomes))
	for i, c := range chromosomes {
		if c.Len() != sim.params.ChromosomeSize {
			return fmt.Errorf("%w: chromosome %d has %d genes, expected %d", ErrInvalidParams, i, c.Len(), sim.params.ChromosomeSize)
		}
		copied[i] = c.Copy()
	}
	sim.reset(copied)
	return nil
}

func (sim *Simulation) reset(chromosomes []*Chromosome) {
	sim.population = chromosomes
	sim.generation = 0
	sim.history = nil
	sim.solvedAt = nil
}

func (sim *Simulation) Params() SimulationParams {
	return sim.params
}

func (sim *Simulation) Generation() int {
	return sim.generation
}

func (sim *Simulation) Done() bool {
	return sim.generation >= sim.params.GenerationLimit
}

func (sim *Simulation) Chromosomes() []*Chromosome {
	return sim.population
}

func (sim *Simulation) History() []GenerationStats {
	return sim.history
}

// Score computes a fresh fitness for every Chromosome of the current generation
func (sim *Simulation) Score() Population {
	pop := make(Population, len(sim.population))
	for i, c := range sim.population {
		pop[i] = &PopulationMember{
			c:       c,
			fitness: sim.evaluator.Fitness(c, sim.params.Target),
		}
	}
	return pop
}

func (sim *Simulation) scoreAndRecord() Population {
	pop := sim.Score()
	if n := len(sim.history); n > 0 && sim.history[n-1].Generation == sim.generation {
		return pop
	}

	stats := newGenerationStats(sim.generation, pop)
	sim.history = append(sim.history, stats)

	if sim.solvedAt == nil && stats.MaxFitness == 1 {
		generation := sim.generation
		sim.solvedAt = &generation
		sim.logf("Generation %d — SOLVED: %g = %s\n\n", generation, sim.params.Target, stats.Best)
	}
	return pop
}

// Run the Simulation until the generation limit, and report the winner
func (sim *Simulation) Run() *WinnerReport {
	sim.logf("Solving for: %g (population %d, %d generations)\n\n", sim.params.Target, sim.params.PopulationSize, sim.params.GenerationLimit)

	startedAt := time.Now()
	for sim.Step() {
	}
	report, winner := sim.winner()

	sim.logf("Winner after %d generations (%s):\n%s\n  fitness %g\n\n", sim.generation, time.Since(startedAt), winner.c.VerboseString(), report.Fitness)
	return report
}

// Winner scores the current generation and reports its fittest member
func (sim *Simulation) Winner() *WinnerReport {
	report, _ := sim.winner()
	return report
}

func (sim *Simulation) winner() (*WinnerReport, *PopulationMember) {
	pop := sim.scoreAndRecord()
	winner := pop.Winner()

	report := newWinnerReport(winner, sim.params.Target, sim.evaluator)
	report.Generations = sim.generation
	report.FirstSolvedGeneration = sim.solvedAt
	report.History = sim.history
	return report, winner
}

// Step breeds the next generation. Returns false, doing nothing, once the
// generation limit has been reached.
func (sim *Simulation) Step() bool {
	if sim.Done() {
		return false
	}

	pop := sim.scoreAndRecord()
	if sim.params.LogInterval > 0 && sim.generation%sim.params.LogInterval == 0 {
		stats := sim.history[len(sim.history)-1]
		sim.logf("Generation %d — best %.6f, mean %.6f ± %.6f\n\n%s\n\n",
			sim.generation, stats.MaxFitness, stats.MeanFitness, stats.StdDevFitness, pop.Winner().c.VerboseString())
	}

	sim.population = sim.nextGeneration(pop)
	sim.generation++
	return true
}

// nextGeneration breeds PopulationSize children from pop by roulette
// selection, crossover and mutation. pop's fitness values are not carried over.
func (sim *Simulation) nextGeneration(pop Population) []*Chromosome {
	generation := make([]*Chromosome, 0, sim.params.PopulationSize)
	wheel := newRouletteWheel(pop)

	for i := 0; i < sim.params.PopulationSize/2; i++ {
		a := wheel.Spin(sim.rng).c
		b := wheel.Spin(sim.rng).c

		if sim.rng.Float64() < sim.params.CrossoverRate {
			// every chromosome has ChromosomeSize genes
			a, b = swapTails(a, b, sim.rng.Intn(sim.params.ChromosomeSize))
		}

		generation = append(generation,
			a.MutateWithRand(sim.params.MutationRate, sim.rng),
			b.MutateWithRand(sim.params.MutationRate, sim.rng),
		)
	}

	return generation
}
