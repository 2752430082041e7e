package genexpr

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Evaluator", func() {
	DescribeTable("Evaluate",
		func(expression string, expectedResult float64) {
			result, err := Evaluate(expression)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(expectedResult))
		},

		Entry("1 + 2", "1 + 2", 3.0),
		Entry("1 - 2", "1 - 2", -1.0),
		Entry("1 * 2", "1 * 2", 2.0),
		Entry("1 / 2", "1 / 2", 0.5),
		Entry("single digit", "7", 7.0),

		// Precedence and associativity
		Entry("2 - 3 * 4", "2 - 3 * 4", -10.0),
		Entry("8 / 4 / 2", "8 / 4 / 2", 1.0),
		Entry("9 - 3 - 2", "9 - 3 - 2", 4.0),
		Entry("6 + 5 * 4 / 2 + 1", "6 + 5 * 4 / 2 + 1", 17.0),
		Entry("8 - 2 * 6 / 3 + 1 * 9", "8 - 2 * 6 / 3 + 1 * 9", 13.0),
	)

	DescribeTable("Evaluate without a value",
		func(expression string, expectedErr error) {
			_, err := Evaluate(expression)
			Expect(errors.Is(err, expectedErr)).To(BeTrue(), "got %v", err)
		},
		Entry("empty", "", ErrNoValue),
		Entry("blank", "   ", ErrNoValue),
		Entry("1 / 0", "1 / 0", ErrDivisionByZero),
		Entry("3 + 2 / 0 * 4", "3 + 2 / 0 * 4", ErrDivisionByZero),
		Entry("0 / 0", "0 / 0", ErrNotANumber),
	)

	Describe("Fitness", func() {
		It("scores the example chromosome against 42", func() {
			fitness := Fitness(mustChromosome(exampleGeneString), 42)
			Expect(fitness).To(Equal(1.0 / 26))
			Expect(fitness).To(BeNumerically("~", 0.03846, 1e-5))
		})

		It("is 1 on an exact match", func() {
			Expect(Fitness(mustChromosome(exampleGeneString), 17)).To(Equal(1.0))
		})

		DescribeTable("is 0 when unevaluable",
			func(geneString string) {
				Expect(Fitness(mustChromosome(geneString), 0)).To(Equal(0.0))
			},
			Entry("empty chromosome", ""),
			Entry("only junk", "1111 00 1010"),
			Entry("division by zero", "0001 11 0000"),
			Entry("zero over zero", "0000 11 0000"),
		)

		It("stays strictly between 0 and 1 for inexact finite results", func() {
			for n := byte(0); n <= 9; n++ {
				chromosome := NewChromosome([]Gene{NewDigitGene(n), NewOperatorGene(0b10), NewDigitGene(9 - n)})
				fitness := Fitness(chromosome, 123.5)
				Expect(fitness).To(BeNumerically(">", 0))
				Expect(fitness).To(BeNumerically("<", 1))
			}
		})
	})

	DescribeTable("ScoreResult is symmetric in the error",
		func(target, d float64) {
			Expect(ScoreResult(target+d, target)).To(Equal(ScoreResult(target-d, target)))
		},
		Entry("10 ± 3", 10.0, 3.0),
		Entry("-4 ± 0.5", -4.0, 0.5),
		Entry("0 ± 1000", 0.0, 1000.0),
	)

	It("decreases monotonically with the error", func() {
		previous := ScoreResult(5, 5)
		for d := 0.25; d < 100; d *= 2 {
			score := ScoreResult(5+d, 5)
			Expect(score).To(BeNumerically("<", previous))
			previous = score
		}
	})

	It("never reaches 1 or 0 for inexact finite results", func() {
		Expect(ScoreResult(1e-20, 0)).To(BeNumerically("<", 1))
		Expect(ScoreResult(-math.MaxFloat64, math.MaxFloat64)).To(BeNumerically(">", 0))
	})

	Describe("with a cache", func() {
		It("returns the same outcomes when cached", func() {
			evaluator, err := NewEvaluator(2)
			Expect(err).ToNot(HaveOccurred())

			for i := 0; i < 3; i++ {
				result, err := evaluator.Evaluate("6 + 5 * 4 / 2 + 1")
				Expect(err).ToNot(HaveOccurred())
				Expect(result).To(Equal(17.0))

				_, err = evaluator.Evaluate("1 / 0")
				Expect(errors.Is(err, ErrDivisionByZero)).To(BeTrue())

				_, err = evaluator.Evaluate("")
				Expect(errors.Is(err, ErrNoValue)).To(BeTrue())
			}

			Expect(evaluator.cache.Len()).To(Equal(2))
		})

		It("scores like the uncached evaluator", func() {
			evaluator, err := NewEvaluator(16)
			Expect(err).ToNot(HaveOccurred())

			chromosome := mustChromosome(exampleGeneString)
			Expect(evaluator.Fitness(chromosome, 42)).To(Equal(Fitness(chromosome, 42)))
			Expect(evaluator.Fitness(chromosome, 42)).To(Equal(Fitness(chromosome, 42)))
		})
	})
})
