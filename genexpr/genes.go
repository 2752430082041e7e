package genexpr

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DigitGeneBits    = 4
	OperatorGeneBits = 2

	// JunkSymbol is what a gene matching no allele decodes to
	JunkSymbol = "(junk)"
)

var ErrMalformedGene = errors.New("malformed gene")

var DigitAlleles = map[byte]byte{
	0b0000: '0',
	0b0001: '1',
	0b0010: '2',
	0b0011: '3',
	0b0100: '4',
	0b0101: '5',
	0b0110: '6',
	0b0111: '7',
	0b1000: '8',
	0b1001: '9',
}

var OperatorAlleles = map[byte]byte{
	0b00: '+',
	0b01: '-',
	0b10: '*',
	0b11: '/',
}

// Reverse lookups, symbol -> bits
var DigitGenes map[byte]byte
var OperatorGenes map[byte]byte

// Digit-width patterns with no allele assigned, in ascending order
var UnknownDigitGenes []byte

func init() {
	DigitGenes = make(map[byte]byte)
	for bits, value := range DigitAlleles {
		DigitGenes[value] = bits
	}

	OperatorGenes = make(map[byte]byte)
	for bits, value := range OperatorAlleles {
		OperatorGenes[value] = bits
	}

	for n := byte(0); n < 1<<DigitGeneBits; n++ {
		if _, isValidGene := DigitAlleles[n]; !isValidGene {
			UnknownDigitGenes = append(UnknownDigitGenes, n)
		}
	}
}

type GeneKind int8

const (
	JunkGene GeneKind = iota
	DigitGene
	OperatorGene
)

func (k GeneKind) String() string {
	switch k {
	case DigitGene:
		return "digit"
	case OperatorGene:
		return "operator"
	default:
		return "junk"
	}
}

// Gene is a fixed-width bit tuple. The low Width bits of Bits are significant,
// most significant bit first.
type Gene struct {
	Bits  byte
	Width uint8
}

func geneMask(width uint8) byte {
	return byte(255 >> (8 - width))
}

func NewDigitGene(bits byte) Gene {
	return Gene{Bits: bits & geneMask(DigitGeneBits), Width: DigitGeneBits}
}

func NewOperatorGene(bits byte) Gene {
	return Gene{Bits: bits & geneMask(OperatorGeneBits), Width: OperatorGeneBits}
}

// ParseGene reads a gene from its bit string, e.g. "0110" or "10"
func ParseGene(s string) (Gene, error) {
	if len(s) == 0 || len(s) > 8 {
		return Gene{}, fmt.Errorf("%w: %q must hold between 1 and 8 bits", ErrMalformedGene, s)
	}

	gene := Gene{Width: uint8(len(s))}
	for k, c := range s {
		switch c {
		case '1':
			gene.Bits |= 1 << (len(s) - k - 1)
		case '0':
		default:
			return Gene{}, fmt.Errorf("%w: unrecognized character %c in %q, expected '1' or '0'", ErrMalformedGene, c, s)
		}
	}
	return gene, nil
}

// Kind classifies the gene by width first, then by allele table. A width
// matching neither table is junk.
func (g Gene) Kind() GeneKind {
	switch g.Width {
	case DigitGeneBits:
		if _, isKnown := DigitAlleles[g.Bits]; isKnown {
			return DigitGene
		}
	case OperatorGeneBits:
		if _, isKnown := OperatorAlleles[g.Bits]; isKnown {
			return OperatorGene
		}
	}
	return JunkGene
}

// Symbol decodes the gene to "0".."9", one of "+-*/", or JunkSymbol
func (g Gene) Symbol() string {
	switch g.Kind() {
	case DigitGene:
		return string(DigitAlleles[g.Bits])
	case OperatorGene:
		return string(OperatorAlleles[g.Bits])
	default:
		return JunkSymbol
	}
}

// Flip returns the gene with bit i (0 = least significant) inverted
func (g Gene) Flip(i int) Gene {
	g.Bits ^= 1 << i
	return g
}

func (g Gene) String() string {
	var buf strings.Builder
	buf.Grow(int(g.Width))
	for j := int(g.Width) - 1; j >= 0; j-- {
		if g.Bits&(1<<j) > 0 {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
	}
	return buf.String()
}
