package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/they4kman/bitexpr/genexpr"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	rng := cfg.Rand()
	sim, err := genexpr.NewSimulation(cfg.SimulationParams(rng), rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if cfg.Verbose {
		sim.SetLog(os.Stderr)
	}

	report := sim.Run()
	if !cfg.Verbose {
		report.History = nil
	}

	switch cfg.Format {
	case "json":
		if err := WriteJSON(os.Stdout, report); err != nil {
			fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
			os.Exit(1)
		}
	default:
		WriteText(os.Stdout, report)
	}
}
