package jsoncodec

import (
	"encoding/json"

	langspec "github.com/mal-lang/mal-langspec"
	"github.com/mal-lang/mal-langspec/meta"
	"github.com/mal-lang/mal-langspec/step"
	"github.com/mal-lang/mal-langspec/ttc"
)

type jsonLang struct {
	FormatVersion string             `json:"formatVersion"`
	Defines       *meta.Meta         `json:"defines"`
	Categories    []jsonCategory     `json:"categories"`
	Assets        []jsonAsset        `json:"assets"`
	Associations  []jsonAssociation  `json:"associations"`
}

type jsonCategory struct {
	Name string     `json:"name"`
	Meta *meta.Meta `json:"meta"`
}

type jsonAsset struct {
	Name        string           `json:"name"`
	Meta        *meta.Meta       `json:"meta"`
	Category    string           `json:"category"`
	IsAbstract  bool             `json:"isAbstract"`
	SuperAsset  *string          `json:"superAsset"`
	Variables   []jsonVariable   `json:"variables"`
	AttackSteps []jsonAttackStep `json:"attackSteps"`
}

type jsonVariable struct {
	Name           string       `json:"name"`
	StepExpression stepExprJSON `json:"stepExpression"`
}

type jsonAttackStep struct {
	Name     string       `json:"name"`
	Meta     *meta.Meta   `json:"meta"`
	Type     string       `json:"type"`
	Tags     []string     `json:"tags"`
	Risk     []string     `json:"risk"`
	TTC      ttcExprJSON  `json:"ttc"`
	Requires *stepsJSON   `json:"requires"`
	Reaches  *stepsJSON   `json:"reaches"`
}

type stepsJSON struct {
	Overrides       bool           `json:"overrides"`
	StepExpressions []stepExprJSON `json:"stepExpressions"`
}

type jsonAssociation struct {
	Name              string           `json:"name"`
	Meta              *meta.Meta       `json:"meta"`
	LeftAsset         string           `json:"leftAsset"`
	LeftField         string           `json:"leftField"`
	LeftMultiplicity  jsonMultiplicity `json:"leftMultiplicity"`
	RightAsset        string           `json:"rightAsset"`
	RightField        string           `json:"rightField"`
	RightMultiplicity jsonMultiplicity `json:"rightMultiplicity"`
}

type jsonMultiplicity struct {
	Min int      `json:"min"`
	Max *float64 `json:"max,omitempty"`
}

// Encode renders lang as the canonical JSON document: fixed top-level
// and per-object key order (matching the schema's required-key order),
// insertion order preserved for every meta/defines object via
// meta.Meta's own MarshalJSON, and 2-space pretty-printing per §4.6.
func Encode(lang *langspec.Lang) ([]byte, error) {
	doc := jsonLang{
		FormatVersion: FormatVersion,
		Defines:       lang.Defines(),
		Categories:    make([]jsonCategory, len(lang.Categories())),
		Assets:        make([]jsonAsset, len(lang.Assets())),
		Associations:  make([]jsonAssociation, len(lang.Associations())),
	}
	for i, c := range lang.Categories() {
		doc.Categories[i] = jsonCategory{Name: c.Name(), Meta: c.Meta()}
	}
	for i, a := range lang.Assets() {
		doc.Assets[i] = encodeAsset(a)
	}
	for i, assoc := range lang.Associations() {
		doc.Associations[i] = encodeAssociation(assoc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeAsset(a *langspec.Asset) jsonAsset {
	var super *string
	if s, ok := a.SuperAssetAsset(); ok {
		name := s.Name()
		super = &name
	}
	vars := a.LocalVariables()
	jvars := make([]jsonVariable, len(vars))
	for i, v := range vars {
		jvars[i] = jsonVariable{Name: v.Name(), StepExpression: stepExprJSON{v.Expression()}}
	}
	steps := a.AttackSteps()
	jsteps := make([]jsonAttackStep, len(steps))
	for i, s := range steps {
		jsteps[i] = encodeAttackStep(s)
	}
	return jsonAsset{
		Name:        a.Name(),
		Meta:        a.Meta(),
		Category:    a.Category().Name(),
		IsAbstract:  a.IsAbstract(),
		SuperAsset:  super,
		Variables:   jvars,
		AttackSteps: jsteps,
	}
}

func encodeAttackStep(s *langspec.AttackStep) jsonAttackStep {
	var risk []string
	if r := s.Risk(); r != nil {
		risk = r.Tags()
	}
	tags := s.Tags()
	if tags == nil {
		tags = []string{}
	}
	return jsonAttackStep{
		Name:     s.Name(),
		Meta:     s.Meta(),
		Type:     s.Type().String(),
		Tags:     tags,
		Risk:     risk,
		TTC:      ttcExprJSON{s.TTC()},
		Requires: encodeSteps(s.Requires()),
		Reaches:  encodeSteps(s.Reaches()),
	}
}

func encodeSteps(s *langspec.Steps) *stepsJSON {
	if s == nil {
		return nil
	}
	exprs := make([]stepExprJSON, len(s.Exprs))
	for i, n := range s.Exprs {
		exprs[i] = stepExprJSON{n}
	}
	return &stepsJSON{Overrides: s.Overrides, StepExpressions: exprs}
}

func encodeAssociation(a *langspec.Association) jsonAssociation {
	left, right := a.LeftField(), a.RightField()
	return jsonAssociation{
		Name:              a.Name(),
		Meta:              a.Meta(),
		LeftAsset:         left.OwningAsset().Name(),
		LeftField:         left.Name(),
		LeftMultiplicity:  encodeMultiplicity(left.Multiplicity()),
		RightAsset:        right.OwningAsset().Name(),
		RightField:        right.Name(),
		RightMultiplicity: encodeMultiplicity(right.Multiplicity()),
	}
}

func encodeMultiplicity(m meta.Multiplicity) jsonMultiplicity {
	if m.IsUnbounded() {
		return jsonMultiplicity{Min: m.Min, Max: nil}
	}
	max := m.Max
	return jsonMultiplicity{Min: m.Min, Max: &max}
}

// stepExprJSON adapts a resolved step.Node to the tagged-variant JSON
// shape in canonical key order. A nil Node (never valid for a built
// Lang's own expressions, but defensively handled) renders as null.
type stepExprJSON struct {
	node *step.Node
}

func (s stepExprJSON) MarshalJSON() ([]byte, error) {
	n := s.node
	if n == nil {
		return []byte("null"), nil
	}
	switch n.Kind {
	case step.Union, step.Intersection, step.Difference, step.Collect:
		return json.Marshal(struct {
			Type string       `json:"type"`
			Lhs  stepExprJSON `json:"lhs"`
			Rhs  stepExprJSON `json:"rhs"`
		}{stepKindJSON(n.Kind), stepExprJSON{n.Lhs}, stepExprJSON{n.Rhs}})
	case step.Transitive:
		return json.Marshal(struct {
			Type           string       `json:"type"`
			StepExpression stepExprJSON `json:"stepExpression"`
		}{"transitive", stepExprJSON{n.Inner}})
	case step.SubType:
		return json.Marshal(struct {
			Type           string       `json:"type"`
			SubType        string       `json:"subType"`
			StepExpression stepExprJSON `json:"stepExpression"`
		}{"subType", n.Name, stepExprJSON{n.Inner}})
	default: // FieldRef, AttackStepRef, VariableRef
		return json.Marshal(struct {
			Type string `json:"type"`
			Name string `json:"name"`
		}{stepKindJSON(n.Kind), n.Name})
	}
}

func stepKindJSON(k step.Kind) string {
	switch k {
	case step.Union:
		return "union"
	case step.Intersection:
		return "intersection"
	case step.Difference:
		return "difference"
	case step.Collect:
		return "collect"
	case step.FieldRef:
		return "field"
	case step.AttackStepRef:
		return "attackStep"
	case step.VariableRef:
		return "variable"
	default:
		return ""
	}
}

// ttcExprJSON adapts a *ttc.Expression to the tagged-variant JSON shape
// in canonical key order. A nil Expression or one with Kind == ttc.Empty
// both render as null; AttackStep.TTC never returns nil, so the nil case
// is handled only defensively.
type ttcExprJSON struct {
	expr *ttc.Expression
}

func (t ttcExprJSON) MarshalJSON() ([]byte, error) {
	e := t.expr
	if e == nil || e.Kind == ttc.Empty {
		return []byte("null"), nil
	}
	switch e.Kind {
	case ttc.Number:
		return json.Marshal(struct {
			Type  string  `json:"type"`
			Value float64 `json:"value"`
		}{"number", e.Value})
	case ttc.Function:
		args := append([]float64(nil), e.Arguments...)
		return json.Marshal(struct {
			Type      string    `json:"type"`
			Name      string    `json:"name"`
			Arguments []float64 `json:"arguments"`
		}{"function", e.Distribution.Name, args})
	default:
		return json.Marshal(struct {
			Type string      `json:"type"`
			Lhs  ttcExprJSON `json:"lhs"`
			Rhs  ttcExprJSON `json:"rhs"`
		}{ttcKindJSON(e.Kind), ttcExprJSON{e.Lhs}, ttcExprJSON{e.Rhs}})
	}
}

func ttcKindJSON(k ttc.Kind) string {
	switch k {
	case ttc.Addition:
		return "addition"
	case ttc.Subtraction:
		return "subtraction"
	case ttc.Multiplication:
		return "multiplication"
	case ttc.Division:
		return "division"
	case ttc.Exponentiation:
		return "exponentiation"
	default:
		return ""
	}
}
