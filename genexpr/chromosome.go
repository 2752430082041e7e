package genexpr

import (
	"fmt"
	"math/rand"
	"strings"
)

type Chromosome struct {
	genes   []Gene
	decoded *DecodeResult
}

type DecodeResult struct {
	// Space-joined 1:1 mapping of gene to symbol, including junk markers
	Phenotype string

	// Phenotype of the cleaned chromosome. Always a valid expression, or empty.
	CleanPhenotype string

	// A char for each gene indicating if it's kept '+', dropped '-', or junk '?'
	Validity string
}

type Validity rune

const (
	Valid   Validity = '+'
	Invalid Validity = '-'
	Unknown Validity = '?'
)

// NewChromosome creates a Chromosome holding a copy of genes
func NewChromosome(genes []Gene) *Chromosome {
	c := &Chromosome{genes: make([]Gene, len(genes))}
	copy(c.genes, genes)
	return c
}

// RandomChromosome creates numGenes genes alternating digit and operator,
// starting with a digit. Digit genes draw from all 4-bit patterns, so junk is
// possible from the start.
func RandomChromosome(numGenes int, rng *rand.Rand) *Chromosome {
	c := &Chromosome{genes: make([]Gene, numGenes)}
	for i := range c.genes {
		if i%2 == 0 {
			c.genes[i] = NewDigitGene(byte(rng.Intn(1 << DigitGeneBits)))
		} else {
			c.genes[i] = NewOperatorGene(byte(rng.Intn(1 << OperatorGeneBits)))
		}
	}
	return c
}

// ChromosomeFromGeneString parses space-separated bit groups, e.g. "0110 00 0101"
func ChromosomeFromGeneString(geneString string) (*Chromosome, error) {
	fields := strings.Fields(geneString)
	c := &Chromosome{genes: make([]Gene, len(fields))}
	for i, field := range fields {
		gene, err := ParseGene(field)
		if err != nil {
			return nil, fmt.Errorf("gene %d: %w", i, err)
		}
		c.genes[i] = gene
	}
	return c, nil
}

// EncodeExpression builds a Chromosome one gene per symbol. '?' stands for a
// junk digit gene; spaces are ignored.
func EncodeExpression(expression string) (*Chromosome, error) {
	c := &Chromosome{genes: make([]Gene, 0, len(expression))}
	for i, value := range []byte(expression) {
		if bits, isDigit := DigitGenes[value]; isDigit {
			c.genes = append(c.genes, NewDigitGene(bits))
		} else if bits, isOp := OperatorGenes[value]; isOp {
			c.genes = append(c.genes, NewOperatorGene(bits))
		} else if value == '?' {
			c.genes = append(c.genes, NewDigitGene(UnknownDigitGenes[0]))
		} else if value != ' ' {
			return nil, fmt.Errorf("%w: unrecognized gene value %c at position %d", ErrMalformedGene, value, i)
		}
	}
	return c, nil
}

// Genes returns a copy of the chromosome's genes
func (c *Chromosome) Genes() []Gene {
	genes := make([]Gene, len(c.genes))
	copy(genes, c.genes)
	return genes
}

func (c *Chromosome) Len() int {
	return len(c.genes)
}

func (c *Chromosome) Copy() *Chromosome {
	return NewChromosome(c.genes)
}

func (c *Chromosome) Equal(other *Chromosome) bool {
	if len(c.genes) != len(other.genes) {
		return false
	}
	for i := range c.genes {
		if c.genes[i] != other.genes[i] {
			return false
		}
	}
	return true
}

func (c *Chromosome) String() string {
	var buf strings.Builder
	buf.Grow(len(c.genes) * (DigitGeneBits + 1))

	for i, gene := range c.genes {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(gene.String())
	}
	return buf.String()
}

// Phenotype is the space-joined symbol of every gene, junk included
func (c *Chromosome) Phenotype() string {
	return c.Decode().Phenotype
}

// cleanIndices returns the indices of the genes which survive cleaning.
//
// A synthetic '+' is prepended, the sequence is cut into (operator, digit)
// pairs, an incomplete trailing pair is dropped, pairs without a valid digit
// are dropped, and the first surviving gene (an operator) is removed.
// Without the synthetic gene, pair p spans genes 2p-1 and 2p.
func (c *Chromosome) cleanIndices() []int {
	kept := make([]int, 0, len(c.genes)+1)
	for digitIdx := 0; digitIdx < len(c.genes); digitIdx += 2 {
		if c.genes[digitIdx].Kind() != DigitGene {
			continue
		}
		opIdx := digitIdx - 1
		if opIdx >= 0 && c.genes[opIdx].Kind() != OperatorGene {
			continue
		}
		kept = append(kept, opIdx, digitIdx)
	}

	if len(kept) == 0 {
		return kept
	}
	return kept[1:]
}

// Clean returns a new Chromosome decoding to `digit (operator digit)*`, or
// an empty one when no valid digit remains
func (c *Chromosome) Clean() *Chromosome {
	indices := c.cleanIndices()
	cleaned := &Chromosome{genes: make([]Gene, len(indices))}
	for i, idx := range indices {
		cleaned.genes[i] = c.genes[idx]
	}
	return cleaned
}

func (c *Chromosome) Decode() *DecodeResult {
	if c.decoded != nil {
		return c.decoded
	}

	symbols := make([]string, len(c.genes))
	validityBuf := make([]byte, len(c.genes))
	for i, gene := range c.genes {
		symbols[i] = gene.Symbol()
		if gene.Kind() == JunkGene {
			validityBuf[i] = byte(Unknown)
		} else {
			validityBuf[i] = byte(Invalid)
		}
	}

	indices := c.cleanIndices()
	cleanSymbols := make([]string, len(indices))
	for i, idx := range indices {
		cleanSymbols[i] = symbols[idx]
		validityBuf[idx] = byte(Valid)
	}

	c.decoded = &DecodeResult{
		Phenotype:      strings.Join(symbols, " "),
		CleanPhenotype: strings.Join(cleanSymbols, " "),
		Validity:       string(validityBuf),
	}
	return c.decoded
}

// Evaluate computes the clean phenotype with the default Evaluator
func (d *DecodeResult) Evaluate() (float64, error) {
	return defaultEvaluator.Evaluate(d.CleanPhenotype)
}

func (c *Chromosome) VerboseString() string {
	decoded := c.Decode()
	result, err := decoded.Evaluate()

	strResult := "no value"
	if err == nil {
		strResult = fmt.Sprintf("%g", result)
	}

	return fmt.Sprintf("%s\n%s\n%s\n  %s\n    = %s", c, decoded.Phenotype, decoded.Validity, decoded.CleanPhenotype, strResult)
}

// MutateWithRand creates a new Chromosome with each bit flipped with probability mutationRate
func (c *Chromosome) MutateWithRand(mutationRate float64, rng *rand.Rand) *Chromosome {
	mutated := c.Copy()

	for i, gene := range mutated.genes {
		for j := int(gene.Width) - 1; j >= 0; j-- {
			if rng.Float64() < mutationRate {
				gene = gene.Flip(j)
			}
		}
		mutated.genes[i] = gene
	}

	return mutated
}

// CrossOverWithRand swaps the tails of a and b at a random gene index
func CrossOverWithRand(a, b *Chromosome, rng *rand.Rand) (*Chromosome, *Chromosome, error) {
	if len(a.genes) == 0 {
		return a.Copy(), b.Copy(), nil
	}
	fulcrum := rng.Intn(len(a.genes))
	return CrossoverFulcrum(a, b, fulcrum)
}

// CrossoverFulcrum creates two new Chromosomes from the provided two,
// with the genes from index fulcrum onwards swapped
func CrossoverFulcrum(a, b *Chromosome, fulcrum int) (*Chromosome, *Chromosome, error) {
	if fulcrum < 0 {
		return nil, nil, fmt.Errorf("fulcrum %d must not be negative", fulcrum)
	}
	if len(a.genes) != len(b.genes) {
		return nil, nil, fmt.Errorf("expected number of genes in both chromosomes to match (%d != %d)", len(a.genes), len(b.genes))
	}
	if fulcrum >= len(a.genes) {
		return nil, nil, fmt.Errorf("fulcrum %d must be less than the number of genes (%d)", fulcrum, len(a.genes))
	}

	newA, newB := swapTails(a, b, fulcrum)
	return newA, newB, nil
}

// swapTails expects a and b to have the same length, and 0 ≤ fulcrum ≤ that length
func swapTails(a, b *Chromosome, fulcrum int) (*Chromosome, *Chromosome) {
	newA := a.Copy()
	newB := b.Copy()

	copy(newA.genes[fulcrum:], b.genes[fulcrum:])
	copy(newB.genes[fulcrum:], a.genes[fulcrum:])

	return newA, newB
}
