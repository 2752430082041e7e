package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/they4kman/bitexpr/genexpr"
)

// Config is the run configuration: defaults, overridden by a TOML file, overridden by flags
type Config struct {
	ConfigPath string `toml:"-"`

	// NaN picks a random integer target in [0, MaxRandomTarget]
	Target          float64 `toml:"target"`
	MaxRandomTarget int64   `toml:"max_random_target"`

	ChromosomeSize int     `toml:"chromosome_size"`
	PopulationSize int     `toml:"population_size"`
	CrossoverRate  float64 `toml:"crossover_rate"`
	MutationRate   float64 `toml:"mutation_rate"`
	Generations    int     `toml:"generations"`

	// 0 seeds from the clock
	Seed int64 `toml:"seed"`

	CacheSize   int    `toml:"cache_size"`
	LogInterval int    `toml:"log_interval"`
	Format      string `toml:"format"`
	Verbose     bool   `toml:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		Target:          math.NaN(),
		MaxRandomTarget: 1000,

		ChromosomeSize: 41,
		PopulationSize: 50,
		CrossoverRate:  0.7,
		MutationRate:   0.01,
		Generations:    500,

		CacheSize:   4096,
		LogInterval: 100,
		Format:      "text",
	}
}

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("bitexpr", flag.ContinueOnError)
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "TOML file with run parameters. Flags override its values")
	fs.Float64Var(&cfg.Target, "target", cfg.Target, "Value to search an expression for. A random integer target is selected if not provided")
	fs.Int64Var(&cfg.MaxRandomTarget, "max-random-target", cfg.MaxRandomTarget, "If no explicit target is provided, this dictates the maximum value of the randomly-selected target")
	fs.IntVar(&cfg.ChromosomeSize, "chromosome-size", cfg.ChromosomeSize, "Number of genes in each chromosome (odd: digit, operator, ..., digit)")
	fs.IntVar(&cfg.PopulationSize, "population-size", cfg.PopulationSize, "Number of chromosomes in the population (even)")
	fs.Float64Var(&cfg.CrossoverRate, "crossover-rate", cfg.CrossoverRate, "Probability that two selected parents swap their tails at a random gene")
	fs.Float64Var(&cfg.MutationRate, "mutation-rate", cfg.MutationRate, "Probability that each bit flips when a child is bred")
	fs.IntVar(&cfg.Generations, "generations", cfg.Generations, "Number of generations to breed")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = seed from the clock)")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "Number of evaluated expressions to cache. Set to 0 to disable")
	fs.IntVar(&cfg.LogInterval, "log-interval", cfg.LogInterval, "Generations between progress reports when -verbose is set")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format (text, json)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Print progress to stderr, and include the per-generation history in the output")
	return fs
}

// loadConfig parses args once to find -config, then applies args again over
// the file's values
func loadConfig(args []string) (Config, error) {
	cfg := DefaultConfig()
	if err := newFlagSet(&cfg).Parse(args); err != nil {
		return cfg, err
	}
	if cfg.ConfigPath == "" {
		return cfg, cfg.check()
	}

	fileCfg := DefaultConfig()
	if _, err := toml.DecodeFile(cfg.ConfigPath, &fileCfg); err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", cfg.ConfigPath, err)
	}

	if err := newFlagSet(&fileCfg).Parse(args); err != nil {
		return fileCfg, err
	}
	return fileCfg, fileCfg.check()
}

func (cfg *Config) check() error {
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q (available: text, json)", cfg.Format)
	}
	if math.IsNaN(cfg.Target) && (cfg.MaxRandomTarget < 0 || cfg.MaxRandomTarget == math.MaxInt64) {
		return fmt.Errorf("max-random-target must be within [0, %d), got %d", int64(math.MaxInt64), cfg.MaxRandomTarget)
	}
	return nil
}

// Rand creates the run's random source, seeded from Seed or the clock
func (cfg *Config) Rand() *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// SimulationParams resolves the target, drawing a random one from rng if unset
func (cfg *Config) SimulationParams(rng *rand.Rand) *genexpr.SimulationParams {
	target := cfg.Target
	if math.IsNaN(target) {
		target = float64(rng.Int63n(cfg.MaxRandomTarget + 1))
	}

	return &genexpr.SimulationParams{
		ChromosomeSize:      cfg.ChromosomeSize,
		PopulationSize:      cfg.PopulationSize,
		CrossoverRate:       cfg.CrossoverRate,
		MutationRate:        cfg.MutationRate,
		GenerationLimit:     cfg.Generations,
		Target:              target,
		EvaluationCacheSize: cfg.CacheSize,
		LogInterval:         cfg.LogInterval,
	}
}
