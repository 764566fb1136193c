package langspec

import (
	"github.com/mal-lang/mal-langspec/identifier"
	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/meta"
	"github.com/mal-lang/mal-langspec/step"
	"github.com/mal-lang/mal-langspec/ttc"
)

// AttackStepType is the kind of an attack step or defense.
type AttackStepType int

const (
	Or AttackStepType = iota
	And
	Defense
	Exist
	NotExist
)

// String renders the JSON literal for this type.
func (t AttackStepType) String() string {
	switch t {
	case Or:
		return "or"
	case And:
		return "and"
	case Defense:
		return "defense"
	case Exist:
		return "exist"
	case NotExist:
		return "notExist"
	default:
		return "unknown"
	}
}

// AttackStepTypeFromString parses the JSON literal for an attack-step
// type.
func AttackStepTypeFromString(s string) (AttackStepType, error) {
	switch s {
	case "or":
		return Or, nil
	case "and":
		return And, nil
	case "defense":
		return Defense, nil
	case "exist":
		return Exist, nil
	case "notExist":
		return NotExist, nil
	default:
		return 0, langerrors.New(langerrors.SchemaViolation, s, "invalid attack step type")
	}
}

// Steps is an ordered list of step expressions with an overrides flag,
// used for both the requires and reaches slots of an attack step.
type Steps struct {
	Overrides bool
	Exprs     []*step.Node
}

// AttackStep is a named capability on an asset: an OR/AND step, a
// defense, or an existence/non-existence gate. Tags, risk, and TTC
// inherit from the super-step when not set locally; Requires and
// Reaches each extend or replace the inherited list according to their
// own Overrides flag. By the time an AttackStep reaches this immutable
// form, all of that merging has already happened — it carries the
// final, effective values for its asset.
type AttackStep struct {
	name        string
	meta        *meta.Meta
	owningAsset *Asset
	typ         AttackStepType
	tags        []string
	risk        *meta.Risk
	ttc         *ttc.Expression
	requires    *Steps
	reaches     *Steps
}

// Name returns the attack step's name.
func (s *AttackStep) Name() string { return s.name }

// Meta returns the attack step's meta entries.
func (s *AttackStep) Meta() *meta.Meta { return s.meta }

// OwningAsset returns the asset the step is declared (or overridden) on.
func (s *AttackStep) OwningAsset() *Asset { return s.owningAsset }

// Type returns the step's type.
func (s *AttackStep) Type() AttackStepType { return s.typ }

// Tags returns the step's effective tags.
func (s *AttackStep) Tags() []string { return append([]string(nil), s.tags...) }

// Risk returns the step's effective risk, or nil if none is set.
func (s *AttackStep) Risk() *meta.Risk { return s.risk }

// TTC returns the step's effective TTC expression. It is never nil: a
// step with no TTC anywhere in its super-chain carries the EMPTY
// sentinel (Kind == ttc.Empty), which serializes as the same JSON
// "null" a locally-declared empty TTC would.
func (s *AttackStep) TTC() *ttc.Expression { return s.ttc }

// Requires returns the step's effective requires list, or nil.
func (s *AttackStep) Requires() *Steps { return s.requires }

// Reaches returns the step's effective reaches list, or nil.
func (s *AttackStep) Reaches() *Steps { return s.reaches }

// StepsBuilder collects an unresolved requires/reaches list.
type StepsBuilder struct {
	Overrides bool
	Exprs     []*step.Builder
}

// AttackStepBuilder collects an attack step's declaration before the
// resolver types its step expressions and merges it with any
// super-step of the same name.
type AttackStepBuilder struct {
	Name     string
	Meta     *meta.Builder
	Type     AttackStepType
	Tags     []string
	Risk     *meta.Risk
	TTC      *ttc.Expression
	Requires *StepsBuilder
	Reaches  *StepsBuilder
}

// NewAttackStepBuilder starts an AttackStepBuilder for the given name
// and type, eagerly validating the name as an identifier. Requires on a
// non-existence step type is rejected later, by AssetBuilder.AddAttackStep.
func NewAttackStepBuilder(name string, typ AttackStepType) (*AttackStepBuilder, error) {
	if err := identifier.Check(name); err != nil {
		return nil, err
	}
	return &AttackStepBuilder{Name: name, Meta: meta.NewBuilder(), Type: typ}, nil
}

func (ab *AttackStepBuilder) validateRequires() error {
	if ab.Requires != nil && ab.Type != Exist && ab.Type != NotExist {
		return langerrors.New(langerrors.RequiresOnNonExistenceStep, ab.Name, "requires is only valid on exist/notExist steps")
	}
	return nil
}
