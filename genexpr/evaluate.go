package genexpr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/PaesslerAG/gval"
	lru "github.com/hashicorp/golang-lru"
)

var (
	ErrNoValue        = errors.New("expression has no value")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNotANumber     = errors.New("expression is not a number")
)

// ExprLang evaluates + - * / with the usual precedence, left-associative
var ExprLang = gval.NewLanguage(gval.Arithmetic())

var defaultEvaluator = &Evaluator{}

type evalOutcome struct {
	value float64
	err   error
}

// Evaluator scores clean phenotypes. Evaluation is deterministic, so outcomes
// may be cached by expression text.
type Evaluator struct {
	cache *lru.Cache
}

// NewEvaluator creates an Evaluator remembering up to cacheSize expressions.
// A cacheSize ≤0 disables caching.
func NewEvaluator(cacheSize int) (*Evaluator, error) {
	e := &Evaluator{}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating evaluation cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Evaluate computes an arithmetic expression. Empty, undefined and unbounded
// results are reported as errors.
func (e *Evaluator) Evaluate(expression string) (float64, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			outcome := cached.(evalOutcome)
			return outcome.value, outcome.err
		}
	}

	value, err := evaluate(expression)
	if e.cache != nil {
		e.cache.Add(expression, evalOutcome{value: value, err: err})
	}
	return value, err
}

func evaluate(expression string) (float64, error) {
	if strings.TrimSpace(expression) == "" {
		return 0, ErrNoValue
	}

	result, err := gval.Evaluate(expression, nil, ExprLang)
	if err != nil {
		return 0, fmt.Errorf("evaluating %q: %w", expression, err)
	}

	value, isFloat := result.(float64)
	if !isFloat {
		return 0, fmt.Errorf("%w: %q evaluated to %v", ErrNotANumber, expression, result)
	}

	switch {
	case math.IsNaN(value):
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, expression)
	case math.IsInf(value, 0):
		return 0, fmt.Errorf("%w: %q", ErrDivisionByZero, expression)
	}
	return value, nil
}

// Fitness cleans and evaluates c, scoring the result against target in [0, 1]
func (e *Evaluator) Fitness(c *Chromosome, target float64) float64 {
	result, err := e.Evaluate(c.Decode().CleanPhenotype)
	if err != nil {
		return 0
	}
	return ScoreResult(result, target)
}

// ScoreResult is 1 / (|target - result| + 1): 1 only on an exact match, and
// never 0 for a finite result
func ScoreResult(result, target float64) float64 {
	if result == target {
		return 1
	}

	score := 1 / (math.Abs(target-result) + 1)
	if score >= 1 {
		// error too small to register against the +1
		return math.Nextafter(1, 0)
	}
	if score == 0 || math.IsNaN(score) {
		return math.SmallestNonzeroFloat64
	}
	return score
}

// Evaluate computes an arithmetic expression with the default, uncached Evaluator
func Evaluate(expression string) (float64, error) {
	return defaultEvaluator.Evaluate(expression)
}

// Fitness scores c against target with the default, uncached Evaluator
func Fitness(c *Chromosome, target float64) float64 {
	return defaultEvaluator.Fitness(c, target)
}
