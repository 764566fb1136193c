package step

import (
	"fmt"

	"github.com/mal-lang/mal-langspec/errors"
)

func (k Kind) jsonType() string {
	switch k {
	case Union:
		return "union"
	case Intersection:
		return "intersection"
	case Difference:
		return "difference"
	case Collect:
		return "collect"
	case Transitive:
		return "transitive"
	case SubType:
		return "subType"
	case FieldRef:
		return "field"
	case AttackStepRef:
		return "attackStep"
	case VariableRef:
		return "variable"
	default:
		return ""
	}
}

// ToJSON renders a resolved Node as the generic JSON value the codec
// package expects, following the tagged-variant shapes of §3/§6.
func (n *Node) ToJSON() any {
	switch n.Kind {
	case Union, Intersection, Difference, Collect:
		return map[string]any{
			"type": n.Kind.jsonType(),
			"lhs":  n.Lhs.ToJSON(),
			"rhs":  n.Rhs.ToJSON(),
		}
	case Transitive:
		return map[string]any{
			"type":           "transitive",
			"stepExpression": n.Inner.ToJSON(),
		}
	case SubType:
		return map[string]any{
			"type":           "subType",
			"subType":        n.Name,
			"stepExpression": n.Inner.ToJSON(),
		}
	case FieldRef, AttackStepRef, VariableRef:
		return map[string]any{
			"type": n.Kind.jsonType(),
			"name": n.Name,
		}
	default:
		return nil
	}
}

// ToJSON renders an unresolved Builder the same way, for round-tripping
// a step-expression before it has been typed.
func (b *Builder) ToJSON() any {
	switch b.Kind {
	case Union, Intersection, Difference, Collect:
		return map[string]any{
			"type": b.Kind.jsonType(),
			"lhs":  b.Lhs.ToJSON(),
			"rhs":  b.Rhs.ToJSON(),
		}
	case Transitive:
		return map[string]any{
			"type":           "transitive",
			"stepExpression": b.Inner.ToJSON(),
		}
	case SubType:
		return map[string]any{
			"type":           "subType",
			"subType":        b.Name,
			"stepExpression": b.Inner.ToJSON(),
		}
	case FieldRef, AttackStepRef, VariableRef:
		return map[string]any{
			"type": b.Kind.jsonType(),
			"name": b.Name,
		}
	default:
		return nil
	}
}

// BuilderFromJSON decodes a generic JSON value (as produced by
// encoding/json.Unmarshal into any) into an unresolved step-expression
// Builder.
func BuilderFromJSON(raw any) (*Builder, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New(errors.SchemaViolation, "", "step expression must be an object")
	}
	typ, _ := obj["type"].(string)
	switch typ {
	case "union", "intersection", "difference", "collect":
		lhs, err := BuilderFromJSON(obj["lhs"])
		if err != nil {
			return nil, err
		}
		rhs, err := BuilderFromJSON(obj["rhs"])
		if err != nil {
			return nil, err
		}
		return &Builder{Kind: kindFromJSON(typ), Lhs: lhs, Rhs: rhs}, nil
	case "transitive":
		inner, err := BuilderFromJSON(obj["stepExpression"])
		if err != nil {
			return nil, err
		}
		return &Builder{Kind: Transitive, Inner: inner}, nil
	case "subType":
		inner, err := BuilderFromJSON(obj["stepExpression"])
		if err != nil {
			return nil, err
		}
		name, _ := obj["subType"].(string)
		return &Builder{Kind: SubType, Inner: inner, Name: name}, nil
	case "field":
		name, _ := obj["name"].(string)
		return &Builder{Kind: FieldRef, Name: name}, nil
	case "attackStep":
		name, _ := obj["name"].(string)
		return &Builder{Kind: AttackStepRef, Name: name}, nil
	case "variable":
		name, _ := obj["name"].(string)
		return &Builder{Kind: VariableRef, Name: name}, nil
	default:
		return nil, errors.New(errors.SchemaViolation, typ, fmt.Sprintf("invalid step expression type %q", typ))
	}
}

func kindFromJSON(typ string) Kind {
	switch typ {
	case "union":
		return Union
	case "intersection":
		return Intersection
	case "difference":
		return Difference
	case "collect":
		return Collect
	}
	return Union
}
