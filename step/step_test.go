package step

import (
	"testing"

	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAsset is a minimal Asset used to exercise the algebra without the
// root object model.
type fakeAsset struct {
	name       string
	super      *fakeAsset
	fields     map[string]*fakeField
	attackStep map[string]bool
	variables  map[string]*fakeAsset
}

func (a *fakeAsset) Name() string { return a.name }
func (a *fakeAsset) SuperAsset() (Asset, bool) {
	if a.super == nil {
		return nil, false
	}
	return a.super, true
}
func (a *fakeAsset) FieldRef(name string) (Field, bool) {
	f, ok := a.fields[name]
	return f, ok
}
func (a *fakeAsset) HasAttackStep(name string) bool { return a.attackStep[name] }
func (a *fakeAsset) VariableTarget(name string) (Asset, error) {
	v, ok := a.variables[name]
	if !ok {
		return nil, langerrors.New(langerrors.UnknownReference, name, "")
	}
	return v, nil
}

type fakeField struct {
	name   string
	target *fakeAsset
}

func (f *fakeField) Name() string       { return f.name }
func (f *fakeField) TargetAsset() Asset { return f.target }

func lookupFor(assets ...*fakeAsset) AssetLookup {
	return func(name string) (Asset, bool) {
		for _, a := range assets {
			if a.name == name {
				return a, true
			}
		}
		return nil, false
	}
}

func TestLUB_DirectAncestor(t *testing.T) {
	base := &fakeAsset{name: "Base"}
	derived := &fakeAsset{name: "Derived", super: base}

	lub, err := LUB(derived, base)
	require.NoError(t, err)
	assert.Equal(t, "Base", lub.Name())
}

func TestLUB_NoCommonAncestor(t *testing.T) {
	a := &fakeAsset{name: "A"}
	b := &fakeAsset{name: "B"}

	_, err := LUB(a, b)
	require.Error(t, err)
	assert.True(t, langerrors.IsNoCommonSuperAsset(err))
}

func TestBuildField_ResolvesTargetAsset(t *testing.T) {
	app := &fakeAsset{name: "App"}
	host := &fakeAsset{name: "Host", fields: map[string]*fakeField{
		"apps": {name: "apps", target: app},
	}}

	node, err := Build(host, &Builder{Kind: FieldRef, Name: "apps"}, lookupFor(host, app))
	require.NoError(t, err)
	assert.Equal(t, "App", node.TargetAsset.Name())
	assert.Equal(t, "Host", node.SourceAsset.Name())
}

func TestBuildCollect_ChainsSourceToTarget(t *testing.T) {
	app := &fakeAsset{name: "App", attackStep: map[string]bool{"exploit": true}}
	host := &fakeAsset{name: "Host", fields: map[string]*fakeField{
		"apps": {name: "apps", target: app},
	}}

	node, err := Build(host, &Builder{
		Kind: Collect,
		Lhs:  &Builder{Kind: FieldRef, Name: "apps"},
		Rhs:  &Builder{Kind: AttackStepRef, Name: "exploit"},
	}, lookupFor(host, app))
	require.NoError(t, err)
	assert.Equal(t, "Host", node.SourceAsset.Name())
	assert.Equal(t, "App", node.TargetAsset.Name())
}

func TestBuildTransitive_RequiresUniformSourceTarget(t *testing.T) {
	base := &fakeAsset{name: "Zone"}
	host := &fakeAsset{name: "Host", fields: map[string]*fakeField{
		"children": {name: "children", target: base},
	}}

	_, err := Build(host, &Builder{
		Kind:  Transitive,
		Inner: &Builder{Kind: FieldRef, Name: "children"},
	}, lookupFor(host, base))
	require.Error(t, err)
	var le *langerrors.LangError
	require.True(t, langerrors.As(err, &le))
	assert.Equal(t, langerrors.TransitiveNonUniform, le.Kind)
}

func TestBuildSubType_RejectsNonSubtype(t *testing.T) {
	a := &fakeAsset{name: "A"}
	b := &fakeAsset{name: "B"}
	host := &fakeAsset{name: "Host", fields: map[string]*fakeField{
		"ref": {name: "ref", target: a},
	}}

	_, err := Build(host, &Builder{
		Kind:  SubType,
		Inner: &Builder{Kind: FieldRef, Name: "ref"},
		Name:  "B",
	}, lookupFor(host, a, b))
	require.Error(t, err)
	assert.True(t, langerrors.As(err, new(*langerrors.LangError)))
}

func TestBuildUnion_TargetIsLUB(t *testing.T) {
	base := &fakeAsset{name: "Base"}
	left := &fakeAsset{name: "Left", super: base}
	right := &fakeAsset{name: "Right", super: base}
	host := &fakeAsset{name: "Host", fields: map[string]*fakeField{
		"toLeft":  {name: "toLeft", target: left},
		"toRight": {name: "toRight", target: right},
	}}

	node, err := Build(host, &Builder{
		Kind: Union,
		Lhs:  &Builder{Kind: FieldRef, Name: "toLeft"},
		Rhs:  &Builder{Kind: FieldRef, Name: "toRight"},
	}, lookupFor(host, base, left, right))
	require.NoError(t, err)
	assert.Equal(t, "Base", node.TargetAsset.Name())
}
