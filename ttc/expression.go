// Package ttc implements the time-to-compromise expression algebra
// attached to attack steps and defenses: a small tagged tree of binary
// arithmetic operations, distribution-backed functions, numeric
// constants, and a distinguished "no TTC" sentinel.
package ttc

import (
	"fmt"
	"math"

	"github.com/mal-lang/mal-langspec/errors"
)

// Kind discriminates the variant of an Expression node. Dispatch on
// Expression methods switches on Kind rather than using separate types
// per variant.
type Kind int

const (
	// Addition: Lhs + Rhs.
	Addition Kind = iota
	// Subtraction: Lhs - Rhs.
	Subtraction
	// Multiplication: Lhs * Rhs.
	Multiplication
	// Division: Lhs / Rhs.
	Division
	// Exponentiation: Lhs ^ Rhs.
	Exponentiation
	// Function: a named distribution applied to Arguments.
	Function
	// Number: a constant Value.
	Number
	// Empty is the distinguished "no TTC" sentinel. Its mean TTC is 0
	// and it has no mean probability.
	Empty
)

func (k Kind) jsonType() string {
	switch k {
	case Addition:
		return "addition"
	case Subtraction:
		return "subtraction"
	case Multiplication:
		return "multiplication"
	case Division:
		return "division"
	case Exponentiation:
		return "exponentiation"
	case Function:
		return "function"
	case Number:
		return "number"
	default:
		return ""
	}
}

// Expression is a node of the TTC expression tree. Only the fields
// relevant to Kind are populated.
type Expression struct {
	Kind         Kind
	Lhs, Rhs     *Expression
	Distribution *Distribution
	Arguments    []float64
	Value        float64
}

// EmptyExpression returns the EMPTY TTC sentinel.
func EmptyExpression() *Expression {
	return &Expression{Kind: Empty}
}

// NewNumber constructs a Number node.
func NewNumber(value float64) *Expression {
	return &Expression{Kind: Number, Value: value}
}

// NewBinary constructs an Addition/Subtraction/Multiplication/Division/
// Exponentiation node. kind must be one of those five.
func NewBinary(kind Kind, lhs, rhs *Expression) (*Expression, error) {
	if lhs == nil || rhs == nil {
		return nil, errors.New(errors.SchemaViolation, "", "binary TTC operation requires both operands")
	}
	return &Expression{Kind: kind, Lhs: lhs, Rhs: rhs}, nil
}

// NewFunction constructs a Function node, validating args against
// distribution's arity and constraints.
func NewFunction(distribution *Distribution, args []float64) (*Expression, error) {
	if distribution == nil {
		return nil, errors.New(errors.SchemaViolation, "", "TTC function requires a distribution")
	}
	if err := distribution.CheckArguments(args); err != nil {
		return nil, err
	}
	return &Expression{
		Kind:         Function,
		Distribution: distribution,
		Arguments:    append([]float64(nil), args...),
	}, nil
}

// MeanTtc returns the expression's mean time-to-compromise. Binary nodes
// apply the corresponding arithmetic to their children's mean TTC;
// Number yields Value; Function delegates to its distribution; Empty
// yields 0.
func (e *Expression) MeanTtc() float64 {
	switch e.Kind {
	case Addition:
		return e.Lhs.MeanTtc() + e.Rhs.MeanTtc()
	case Subtraction:
		return e.Lhs.MeanTtc() - e.Rhs.MeanTtc()
	case Multiplication:
		return e.Lhs.MeanTtc() * e.Rhs.MeanTtc()
	case Division:
		return e.Lhs.MeanTtc() / e.Rhs.MeanTtc()
	case Exponentiation:
		return math.Pow(e.Lhs.MeanTtc(), e.Rhs.MeanTtc())
	case Function:
		return e.Distribution.MeanTtc(e.Arguments)
	case Number:
		return e.Value
	case Empty:
		return 0
	default:
		return 0
	}
}

// MeanProbability returns the expression's mean probability and whether
// one is defined. Only Function nodes backed by a distribution that
// defines a mean probability (Bernoulli, Enabled, Disabled) support
// this; every other variant reports false.
func (e *Expression) MeanProbability() (float64, bool) {
	if e.Kind != Function {
		return 0, false
	}
	return e.Distribution.MeanProbability(e.Arguments)
}

// ToJSON renders the expression as the generic JSON value the codec
// package expects: nil for EMPTY, otherwise a map matching the tagged
// shapes in the schema.
func (e *Expression) ToJSON() any {
	switch e.Kind {
	case Empty:
		return nil
	case Number:
		return map[string]any{"type": "number", "value": e.Value}
	case Function:
		args := make([]any, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = a
		}
		return map[string]any{
			"type":      "function",
			"name":      e.Distribution.Name,
			"arguments": args,
		}
	default:
		return map[string]any{
			"type": e.Kind.jsonType(),
			"lhs":  e.Lhs.ToJSON(),
			"rhs":  e.Rhs.ToJSON(),
		}
	}
}

// FromJSON decodes a generic JSON value (as produced by
// encoding/json.Unmarshal into any) into an Expression. A nil raw value
// decodes to the EMPTY sentinel, matching the schema's "ttc: null" case.
func FromJSON(raw any) (*Expression, error) {
	if raw == nil {
		return EmptyExpression(), nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New(errors.SchemaViolation, "", "TTC expression must be an object or null")
	}
	typ, _ := obj["type"].(string)
	switch typ {
	case "addition", "subtraction", "multiplication", "division", "exponentiation":
		lhs, err := FromJSON(obj["lhs"])
		if err != nil {
			return nil, err
		}
		rhs, err := FromJSON(obj["rhs"])
		if err != nil {
			return nil, err
		}
		return NewBinary(kindFromJSON(typ), lhs, rhs)
	case "function":
		name, _ := obj["name"].(string)
		dist, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		rawArgs, _ := obj["arguments"].([]any)
		args := make([]float64, len(rawArgs))
		for i, a := range rawArgs {
			f, ok := a.(float64)
			if !ok {
				return nil, errors.New(errors.SchemaViolation, name, "TTC function arguments must be numbers")
			}
			args[i] = f
		}
		return NewFunction(dist, args)
	case "number":
		v, ok := obj["value"].(float64)
		if !ok {
			return nil, errors.New(errors.SchemaViolation, "", "TTC number requires a numeric value")
		}
		return NewNumber(v), nil
	default:
		return nil, errors.New(errors.SchemaViolation, typ, fmt.Sprintf("invalid TTC expression type %q", typ))
	}
}

func kindFromJSON(typ string) Kind {
	switch typ {
	case "addition":
		return Addition
	case "subtraction":
		return Subtraction
	case "multiplication":
		return Multiplication
	case "division":
		return Division
	case "exponentiation":
		return Exponentiation
	}
	return Addition
}
