package langspec

import (
	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/identifier"
	"github.com/mal-lang/mal-langspec/meta"
	"github.com/mal-lang/mal-langspec/step"
)

// Asset is a typed kind of node in a threat model. Assets form a forest
// under the super-asset relation; every inherited-lookup method
// (Variable, AttackStep, Field, SvgIcon, PngIcon) checks this asset
// first and falls back to its super-asset chain.
type Asset struct {
	name       string
	meta       *meta.Meta
	category   *Category
	isAbstract bool
	super      *Asset

	localVariables   []*Variable
	variablesByName  map[string]*Variable

	localAttackSteps     []*AttackStep
	attackStepsByName    map[string]*AttackStep

	localFields   []*Field
	fieldsByName  map[string]*Field

	svgIcon []byte
	pngIcon []byte
}

// Name returns the asset's name.
func (a *Asset) Name() string { return a.name }

// Meta returns the asset's meta entries.
func (a *Asset) Meta() *meta.Meta { return a.meta }

// Category returns the category this asset belongs to.
func (a *Asset) Category() *Category { return a.category }

// IsAbstract reports whether this asset is abstract.
func (a *Asset) IsAbstract() bool { return a.isAbstract }

// SuperAssetAsset returns this asset's super-asset, if any.
func (a *Asset) SuperAssetAsset() (*Asset, bool) {
	if a.super == nil {
		return nil, false
	}
	return a.super, true
}

// SuperAsset implements step.Asset.
func (a *Asset) SuperAsset() (step.Asset, bool) {
	if a.super == nil {
		return nil, false
	}
	return a.super, true
}

// IsSubtypeOf reports whether a is sup or a transitive subtype of sup.
func (a *Asset) IsSubtypeOf(sup *Asset) bool {
	return step.IsSubtypeOrEqual(a, sup)
}

// LocalVariables returns the variables declared directly on this asset,
// in declaration order.
func (a *Asset) LocalVariables() []*Variable {
	return append([]*Variable(nil), a.localVariables...)
}

// Variable performs the inherited lookup: local first, else the
// super-asset chain.
func (a *Asset) Variable(name string) (*Variable, bool) {
	if v, ok := a.variablesByName[name]; ok {
		return v, true
	}
	if a.super != nil {
		return a.super.Variable(name)
	}
	return nil, false
}

// VariableTarget implements step.Asset's resolution contract: the
// variable's resolved target asset, an UnknownReference error if no
// such variable exists anywhere on the chain, or a VariableCycle error
// if it exists but has not been typed yet.
func (a *Asset) VariableTarget(name string) (step.Asset, error) {
	v, ok := a.Variable(name)
	if !ok {
		return nil, langerrors.New(langerrors.UnknownReference, name, "unknown variable on "+a.name)
	}
	if v.expression == nil {
		return nil, langerrors.New(langerrors.VariableCycle, a.name+"."+name, "variable referenced before it was typed")
	}
	return v.expression.TargetAsset, nil
}

// AttackSteps returns this asset's effective attack-step set: the
// super-asset's effective set with any locally overridden names
// removed, followed by this asset's local steps in declaration order.
func (a *Asset) AttackSteps() []*AttackStep {
	var result []*AttackStep
	if a.super != nil {
		for _, s := range a.super.AttackSteps() {
			if _, overridden := a.attackStepsByName[s.name]; !overridden {
				result = append(result, s)
			}
		}
	}
	return append(result, a.localAttackSteps...)
}

// AttackStep performs the inherited lookup: local first, else the
// super-asset chain.
func (a *Asset) AttackStep(name string) (*AttackStep, bool) {
	if s, ok := a.attackStepsByName[name]; ok {
		return s, true
	}
	if a.super != nil {
		return a.super.AttackStep(name)
	}
	return nil, false
}

// HasAttackStep implements step.Asset.
func (a *Asset) HasAttackStep(name string) bool {
	_, ok := a.AttackStep(name)
	return ok
}

// LocalFields returns the fields attached to this asset by its own
// association endpoints, in declaration order.
func (a *Asset) LocalFields() []*Field {
	return append([]*Field(nil), a.localFields...)
}

// Field performs the inherited lookup: local first, else the
// super-asset chain.
func (a *Asset) Field(name string) (*Field, bool) {
	if f, ok := a.fieldsByName[name]; ok {
		return f, true
	}
	if a.super != nil {
		return a.super.Field(name)
	}
	return nil, false
}

// FieldRef implements step.Asset.
func (a *Asset) FieldRef(name string) (step.Field, bool) {
	return a.Field(name)
}

// SvgIcon returns this asset's SVG icon bytes, local if present else
// inherited from the super-asset chain, or nil if none is set anywhere.
func (a *Asset) SvgIcon() []byte {
	if a.svgIcon != nil {
		return a.svgIcon
	}
	if a.super != nil {
		return a.super.SvgIcon()
	}
	return nil
}

// PngIcon returns this asset's PNG icon bytes, local if present else
// inherited from the super-asset chain, or nil if none is set anywhere.
func (a *Asset) PngIcon() []byte {
	if a.pngIcon != nil {
		return a.pngIcon
	}
	if a.super != nil {
		return a.super.PngIcon()
	}
	return nil
}

// LocalSvgIcon returns this asset's own SVG icon bytes, ignoring
// inheritance — the form the archive writer emits.
func (a *Asset) LocalSvgIcon() []byte { return a.svgIcon }

// LocalPngIcon returns this asset's own PNG icon bytes, ignoring
// inheritance — the form the archive writer emits.
func (a *Asset) LocalPngIcon() []byte { return a.pngIcon }

// AssetBuilder collects an asset's declaration before the resolver
// links its super-asset, fields, variables, and attack steps.
type AssetBuilder struct {
	Name          string
	Meta          *meta.Builder
	CategoryName  string
	IsAbstract    bool
	SuperAssetName string
	SvgIcon       []byte
	PngIcon       []byte

	Variables   []*VariableBuilder
	AttackSteps []*AttackStepBuilder

	variableNames   map[string]bool
	attackStepNames map[string]bool
}

// NewAssetBuilder starts an AssetBuilder for the given name and owning
// category, eagerly validating both as identifiers.
func NewAssetBuilder(name, categoryName string) (*AssetBuilder, error) {
	if err := identifier.Check(name); err != nil {
		return nil, err
	}
	if err := identifier.Check(categoryName); err != nil {
		return nil, err
	}
	return &AssetBuilder{
		Name:            name,
		Meta:            meta.NewBuilder(),
		CategoryName:    categoryName,
		variableNames:   map[string]bool{},
		attackStepNames: map[string]bool{},
	}, nil
}

// AddVariable appends vb to this asset's local variables, rejecting a
// name already used locally.
func (ab *AssetBuilder) AddVariable(vb *VariableBuilder) error {
	if ab.variableNames == nil {
		ab.variableNames = map[string]bool{}
	}
	if ab.variableNames[vb.Name] {
		return langerrors.New(langerrors.DuplicateName, ab.Name+"."+vb.Name, "duplicate variable name")
	}
	ab.variableNames[vb.Name] = true
	ab.Variables = append(ab.Variables, vb)
	return nil
}

// AddAttackStep appends ab2 to this asset's local attack steps,
// rejecting a name already used locally and any Requires set on a
// non-existence step type.
func (ab *AssetBuilder) AddAttackStep(ab2 *AttackStepBuilder) error {
	if err := ab2.validateRequires(); err != nil {
		return err
	}
	if ab.attackStepNames == nil {
		ab.attackStepNames = map[string]bool{}
	}
	if ab.attackStepNames[ab2.Name] {
		return langerrors.New(langerrors.DuplicateName, ab.Name+"."+ab2.Name, "duplicate attack step name")
	}
	ab.attackStepNames[ab2.Name] = true
	ab.AttackSteps = append(ab.AttackSteps, ab2)
	return nil
}
