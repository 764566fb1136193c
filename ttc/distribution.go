package ttc

import (
	"math"

	"github.com/mal-lang/mal-langspec/errors"
)

// Max is the largest finite value a TTC mean may take — the replacement
// for "infinite" time-to-compromise.
const Max = math.MaxFloat64

// Distribution describes one entry of the closed distribution catalog:
// its arity, an argument validator, and its mean-TTC / mean-probability
// functions. Distributions with no defined mean-probability leave that
// field nil; MeanProbability then reports false instead of a value.
type Distribution struct {
	Name            string
	Arity           int
	checkArgs       func(args []float64) error
	meanTtc         func(args []float64) float64
	meanProbability func(args []float64) float64
}

// CheckArguments validates args against this distribution's arity and
// constraints, returning an InvalidDistributionArguments LangError on
// failure.
func (d *Distribution) CheckArguments(args []float64) error {
	if len(args) != d.Arity {
		return errors.New(errors.InvalidDistributionArguments, d.Name, "wrong argument count")
	}
	for _, a := range args {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return errors.New(errors.InvalidDistributionArguments, d.Name, "arguments must be finite")
		}
	}
	if d.checkArgs != nil {
		if err := d.checkArgs(args); err != nil {
			return err
		}
	}
	return nil
}

// MeanTtc returns the distribution's mean time-to-compromise for args.
// Callers must have validated args with CheckArguments first.
func (d *Distribution) MeanTtc(args []float64) float64 {
	return d.meanTtc(args)
}

// HasMeanProbability reports whether this distribution defines a mean
// probability.
func (d *Distribution) HasMeanProbability() bool {
	return d.meanProbability != nil
}

// MeanProbability returns the distribution's mean probability for args,
// and whether this distribution defines one at all.
func (d *Distribution) MeanProbability(args []float64) (float64, bool) {
	if d.meanProbability == nil {
		return 0, false
	}
	return d.meanProbability(args), true
}

func checkProbability(name string, p float64) error {
	if p < 0 || p > 1 {
		return errors.New(errors.InvalidDistributionArguments, name, "probability must be in [0, 1]")
	}
	return nil
}

func checkPositive(name string, v float64) error {
	if v <= 0 {
		return errors.New(errors.InvalidDistributionArguments, name, "argument must be positive")
	}
	return nil
}

func checkNonNegativeInteger(name string, v float64) error {
	if v < 0 || v != math.Trunc(v) {
		return errors.New(errors.InvalidDistributionArguments, name, "argument must be a non-negative integer")
	}
	return nil
}

func exponentialMean(rate float64) float64 {
	return 1 / rate
}

func bernoulliMean(p float64) float64 {
	if p < 0.5 {
		return 0
	}
	return Max
}

var catalog = buildCatalog()

func buildCatalog() map[string]*Distribution {
	m := map[string]*Distribution{
		"Bernoulli": {
			Name: "Bernoulli", Arity: 1,
			checkArgs: func(a []float64) error { return checkProbability("Bernoulli", a[0]) },
			meanTtc: func(a []float64) float64 {
				if a[0] < 0.5 {
					return 0
				}
				return Max
			},
			meanProbability: func(a []float64) float64 { return a[0] },
		},
		"Binomial": {
			Name: "Binomial", Arity: 2,
			checkArgs: func(a []float64) error {
				if err := checkNonNegativeInteger("Binomial", a[0]); err != nil {
					return err
				}
				return checkProbability("Binomial", a[1])
			},
			meanTtc: func(a []float64) float64 { return a[0] * a[1] },
		},
		"Exponential": {
			Name: "Exponential", Arity: 1,
			checkArgs: func(a []float64) error { return checkPositive("Exponential", a[0]) },
			meanTtc:    func(a []float64) float64 { return exponentialMean(a[0]) },
		},
		"Gamma": {
			Name: "Gamma", Arity: 2,
			checkArgs: func(a []float64) error {
				if err := checkPositive("Gamma", a[0]); err != nil {
					return err
				}
				return checkPositive("Gamma", a[1])
			},
			meanTtc: func(a []float64) float64 { return a[0] * a[1] },
		},
		"LogNormal": {
			Name: "LogNormal", Arity: 2,
			checkArgs: func(a []float64) error { return checkPositive("LogNormal", a[1]) },
			meanTtc: func(a []float64) float64 {
				return math.Exp(a[0] + (a[1]*a[1])/2)
			},
		},
		"Pareto": {
			Name: "Pareto", Arity: 2,
			checkArgs: func(a []float64) error {
				if err := checkPositive("Pareto", a[0]); err != nil {
					return err
				}
				return checkPositive("Pareto", a[1])
			},
			meanTtc: func(a []float64) float64 {
				min, shape := a[0], a[1]
				if shape > 1 {
					return shape * min / (shape - 1)
				}
				return Max
			},
		},
		"TruncatedNormal": {
			Name: "TruncatedNormal", Arity: 2,
			checkArgs: func(a []float64) error { return checkPositive("TruncatedNormal", a[1]) },
			meanTtc:   func(a []float64) float64 { return a[0] },
		},
		"Uniform": {
			Name: "Uniform", Arity: 2,
			checkArgs: func(a []float64) error {
				if a[0] > a[1] {
					return errors.New(errors.InvalidDistributionArguments, "Uniform", "a must be <= b")
				}
				return nil
			},
			meanTtc: func(a []float64) float64 { return (a[0] + a[1]) / 2 },
		},
		"EasyAndCertain": {
			Name: "EasyAndCertain", Arity: 0,
			meanTtc: func(a []float64) float64 { return exponentialMean(1.0) },
		},
		"EasyAndUncertain": {
			Name: "EasyAndUncertain", Arity: 0,
			meanTtc: func(a []float64) float64 { return bernoulliMean(0.5) + exponentialMean(1.0) },
		},
		"HardAndCertain": {
			Name: "HardAndCertain", Arity: 0,
			meanTtc: func(a []float64) float64 { return exponentialMean(0.1) },
		},
		"HardAndUncertain": {
			Name: "HardAndUncertain", Arity: 0,
			meanTtc: func(a []float64) float64 { return bernoulliMean(0.5) + exponentialMean(0.1) },
		},
		"VeryHardAndCertain": {
			Name: "VeryHardAndCertain", Arity: 0,
			meanTtc: func(a []float64) float64 { return exponentialMean(0.01) },
		},
		"VeryHardAndUncertain": {
			Name: "VeryHardAndUncertain", Arity: 0,
			meanTtc: func(a []float64) float64 { return bernoulliMean(0.5) + exponentialMean(0.01) },
		},
		"Infinity": {
			Name: "Infinity", Arity: 0,
			meanTtc: func(a []float64) float64 { return Max },
		},
		"Zero": {
			Name: "Zero", Arity: 0,
			meanTtc: func(a []float64) float64 { return 0 },
		},
		"Enabled": {
			Name: "Enabled", Arity: 0,
			meanProbability: func(a []float64) float64 { return 1.0 },
		},
		"Disabled": {
			Name: "Disabled", Arity: 0,
			meanProbability: func(a []float64) float64 { return 0.0 },
		},
	}
	return m
}

// Lookup returns the distribution registered under name, or an
// UnknownReference LangError if none exists.
func Lookup(name string) (*Distribution, error) {
	d, ok := catalog[name]
	if !ok {
		return nil, errors.New(errors.UnknownReference, name, "unknown TTC distribution")
	}
	return d, nil
}

// Distributions returns the names of every distribution in the catalog,
// for tooling that lists available distributions without constructing a
// full TTC tree.
func Distributions() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	return names
}
