package main

import (
	"encoding/json"
	"io"

	"github.com/they4kman/bitexpr/genexpr"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numPrinter = message.NewPrinter(language.English)

func WriteText(w io.Writer, report *genexpr.WinnerReport) {
	numPrinter.Fprintf(w, "Target:          %v\n", report.Target)
	numPrinter.Fprintf(w, "Generations:     %d\n", report.Generations)
	numPrinter.Fprintf(w, "Chromosome:      %s\n", report.Chromosome)
	numPrinter.Fprintf(w, "Phenotype:       %s\n", report.Phenotype)
	numPrinter.Fprintf(w, "Clean phenotype: %s\n", report.CleanPhenotype)
	if report.Result != nil {
		numPrinter.Fprintf(w, "Result:          %v\n", *report.Result)
	} else {
		numPrinter.Fprintf(w, "Result:          no value\n")
	}
	numPrinter.Fprintf(w, "Fitness:         %.6f\n", report.Fitness)
	if report.FirstSolvedGeneration != nil {
		numPrinter.Fprintf(w, "First solved at generation %d\n", *report.FirstSolvedGeneration)
	}

	if len(report.History) > 0 {
		numPrinter.Fprintf(w, "\n--- History ---\n")
		for _, stats := range report.History {
			numPrinter.Fprintf(w, "Gen %4d | Best: %.6f | Avg: %.6f ± %.6f | %s\n",
				stats.Generation, stats.MaxFitness, stats.MeanFitness, stats.StdDevFitness, stats.Best)
		}
	}
}

func WriteJSON(w io.Writer, report *genexpr.WinnerReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
