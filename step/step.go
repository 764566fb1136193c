// Package step implements the step-expression algebra that navigates
// from a source asset to a target asset across fields, sub-type
// restrictions, transitive closures, set combinators, attack steps, and
// variables, together with the least-upper-bound (LUB) computation over
// the asset inheritance forest that the set combinators rely on.
//
// The package is deliberately asset-agnostic: it depends only on the
// small Asset/Field interfaces below, which the root langspec package's
// concrete Asset and Field types satisfy. This keeps the algebra
// reusable without an import cycle back to the object model that owns
// it.
package step

import (
	"github.com/mal-lang/mal-langspec/errors"
)

// Asset is the subset of the object model's asset behavior the step
// algebra needs: identity, the super-asset link used for LUB and
// subtype checks, and by-name lookup of fields, attack steps, and
// variables (all inherited-aware, per the object model's own rules).
//
// VariableTarget returns the variable's resolved target asset. It must return
// a VariableCycle error if the variable exists but its body has not yet
// been typed (the caller — the resolver — builds variables in
// declaration order and supplies partial knowledge accordingly), and an
// UnknownReference error if no such variable exists at all.
type Asset interface {
	Name() string
	SuperAsset() (Asset, bool)
	FieldRef(name string) (Field, bool)
	HasAttackStep(name string) bool
	VariableTarget(name string) (Asset, error)
}

// Field is the subset of field behavior the step algebra needs: the
// asset at the far end of the association.
type Field interface {
	Name() string
	TargetAsset() Asset
}

// AssetLookup resolves an asset by name anywhere in the Lang, for the
// subType operator.
type AssetLookup func(name string) (Asset, bool)

// Kind discriminates the variant of a step-expression Node.
type Kind int

const (
	Union Kind = iota
	Intersection
	Difference
	Collect
	Transitive
	SubType
	FieldRef
	AttackStepRef
	VariableRef
)

// Node is a typed step-expression tree node. SourceAsset and TargetAsset
// are always populated once Build succeeds; the remaining fields depend
// on Kind.
type Node struct {
	Kind                 Kind
	SourceAsset          Asset
	TargetAsset          Asset
	Lhs, Rhs             *Node
	Inner                *Node
	Name                 string
	ResolvedAttackStepOn Asset
}

// Builder is the unresolved, by-name description of a step-expression
// node, as collected from JSON or direct construction.
type Builder struct {
	Kind     Kind
	Lhs, Rhs *Builder
	Inner    *Builder
	Name     string
}

// Build resolves b into a typed Node rooted at sourceAsset, the asset
// context whose fields/attack-steps/variables the leaf operators
// resolve against. lookup resolves asset names for the subType operator.
func Build(sourceAsset Asset, b *Builder, lookup AssetLookup) (*Node, error) {
	switch b.Kind {
	case Union, Intersection, Difference:
		return buildSetOp(sourceAsset, b, lookup)
	case Collect:
		return buildCollect(sourceAsset, b, lookup)
	case Transitive:
		return buildTransitive(sourceAsset, b, lookup)
	case SubType:
		return buildSubType(sourceAsset, b, lookup)
	case FieldRef:
		return buildField(sourceAsset, b)
	case AttackStepRef:
		return buildAttackStep(sourceAsset, b)
	case VariableRef:
		return buildVariable(sourceAsset, b)
	default:
		return nil, errors.New(errors.SchemaViolation, "", "unknown step-expression kind")
	}
}

func buildSetOp(sourceAsset Asset, b *Builder, lookup AssetLookup) (*Node, error) {
	lhs, err := Build(sourceAsset, b.Lhs, lookup)
	if err != nil {
		return nil, err
	}
	rhs, err := Build(sourceAsset, b.Rhs, lookup)
	if err != nil {
		return nil, err
	}
	target, err := LUB(lhs.TargetAsset, rhs.TargetAsset)
	if err != nil {
		return nil, err
	}
	return &Node{
		Kind:        b.Kind,
		SourceAsset: sourceAsset,
		TargetAsset: target,
		Lhs:         lhs,
		Rhs:         rhs,
	}, nil
}

func buildCollect(sourceAsset Asset, b *Builder, lookup AssetLookup) (*Node, error) {
	lhs, err := Build(sourceAsset, b.Lhs, lookup)
	if err != nil {
		return nil, err
	}
	rhs, err := Build(lhs.TargetAsset, b.Rhs, lookup)
	if err != nil {
		return nil, err
	}
	return &Node{
		Kind:        Collect,
		SourceAsset: lhs.SourceAsset,
		TargetAsset: rhs.TargetAsset,
		Lhs:         lhs,
		Rhs:         rhs,
	}, nil
}

func buildTransitive(sourceAsset Asset, b *Builder, lookup AssetLookup) (*Node, error) {
	inner, err := Build(sourceAsset, b.Inner, lookup)
	if err != nil {
		return nil, err
	}
	if inner.SourceAsset.Name() != inner.TargetAsset.Name() {
		return nil, errors.New(errors.TransitiveNonUniform, sourceAsset.Name(), "transitive inner expression must have equal source and target")
	}
	return &Node{
		Kind:        Transitive,
		SourceAsset: inner.SourceAsset,
		TargetAsset: inner.TargetAsset,
		Inner:       inner,
	}, nil
}

func buildSubType(sourceAsset Asset, b *Builder, lookup AssetLookup) (*Node, error) {
	inner, err := Build(sourceAsset, b.Inner, lookup)
	if err != nil {
		return nil, err
	}
	target, ok := lookup(b.Name)
	if !ok {
		return nil, errors.New(errors.UnknownReference, b.Name, "unknown asset in subType")
	}
	if !IsSubtypeOrEqual(target, inner.TargetAsset) {
		return nil, errors.New(errors.IncompatibleSubType, b.Name, "not a subtype of "+inner.TargetAsset.Name())
	}
	return &Node{
		Kind:        SubType,
		SourceAsset: inner.SourceAsset,
		TargetAsset: target,
		Inner:       inner,
		Name:        b.Name,
	}, nil
}

func buildField(sourceAsset Asset, b *Builder) (*Node, error) {
	f, ok := sourceAsset.FieldRef(b.Name)
	if !ok {
		return nil, errors.New(errors.UnknownReference, b.Name, "unknown field on "+sourceAsset.Name())
	}
	return &Node{
		Kind:        FieldRef,
		SourceAsset: sourceAsset,
		TargetAsset: f.TargetAsset(),
		Name:        b.Name,
	}, nil
}

func buildAttackStep(sourceAsset Asset, b *Builder) (*Node, error) {
	if !sourceAsset.HasAttackStep(b.Name) {
		return nil, errors.New(errors.UnknownReference, b.Name, "unknown attack step on "+sourceAsset.Name())
	}
	return &Node{
		Kind:                 AttackStepRef,
		SourceAsset:          sourceAsset,
		TargetAsset:          sourceAsset,
		Name:                 b.Name,
		ResolvedAttackStepOn: sourceAsset,
	}, nil
}

func buildVariable(sourceAsset Asset, b *Builder) (*Node, error) {
	target, err := sourceAsset.VariableTarget(b.Name)
	if err != nil {
		return nil, err
	}
	return &Node{
		Kind:        VariableRef,
		SourceAsset: sourceAsset,
		TargetAsset: target,
		Name:        b.Name,
	}, nil
}

// IsSubtypeOrEqual reports whether x is sup or a (transitive) subtype
// of sup.
func IsSubtypeOrEqual(x, sup Asset) bool {
	for a := x; a != nil; {
		if sameAsset(a, sup) {
			return true
		}
		next, ok := a.SuperAsset()
		if !ok {
			break
		}
		a = next
	}
	return false
}

func sameAsset(a, b Asset) bool {
	return a != nil && b != nil && a.Name() == b.Name()
}

// LUB computes the least upper bound of a and b: the most specific
// asset S such that both a and b are S or subtypes of S. Ties along
// incomparable branches are broken in a's favor — the candidate chosen
// is the one closest to a along a's own super-chain; b only decides
// whether a given ancestor of a qualifies.
func LUB(a, b Asset) (Asset, error) {
	for candidate := a; candidate != nil; {
		if IsSubtypeOrEqual(b, candidate) {
			return candidate, nil
		}
		next, ok := candidate.SuperAsset()
		if !ok {
			break
		}
		candidate = next
	}
	return nil, errors.New(errors.NoCommonSuperAsset, a.Name()+" - "+b.Name(), "no common super-asset")
}
