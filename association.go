package langspec

import (
	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/identifier"
	"github.com/mal-lang/mal-langspec/meta"
)

// Association is a named relation between two assets, realized as a
// pair of cross-linked Field endpoints. An association's name need not
// be unique across the whole Lang by itself — only the
// (name, leftAsset, rightAsset) triple must be — since the same
// relationship name may recur between different asset pairs.
type Association struct {
	name       string
	meta       *meta.Meta
	leftField  *Field
	rightField *Field
}

// Name returns the association's name.
func (a *Association) Name() string { return a.name }

// Meta returns the association's meta entries.
func (a *Association) Meta() *meta.Meta { return a.meta }

// LeftField returns the left endpoint of the association.
func (a *Association) LeftField() *Field { return a.leftField }

// RightField returns the right endpoint of the association.
func (a *Association) RightField() *Field { return a.rightField }

// AssociationBuilder collects an association's declaration before the
// resolver links its endpoints to their owning assets.
type AssociationBuilder struct {
	Name             string
	Meta             *meta.Builder
	LeftAssetName    string
	LeftFieldName    string
	LeftMultiplicity meta.Multiplicity

	RightAssetName    string
	RightFieldName    string
	RightMultiplicity meta.Multiplicity
}

// NewAssociationBuilder starts an AssociationBuilder, eagerly validating
// the association name and both endpoint asset/field names as
// identifiers.
func NewAssociationBuilder(
	name string,
	leftAssetName, leftFieldName string,
	leftMultiplicity meta.Multiplicity,
	rightAssetName, rightFieldName string,
	rightMultiplicity meta.Multiplicity,
) (*AssociationBuilder, error) {
	for _, id := range []string{name, leftAssetName, leftFieldName, rightAssetName, rightFieldName} {
		if err := identifier.Check(id); err != nil {
			return nil, err
		}
	}
	return &AssociationBuilder{
		Name:              name,
		Meta:              meta.NewBuilder(),
		LeftAssetName:     leftAssetName,
		LeftFieldName:     leftFieldName,
		LeftMultiplicity:  leftMultiplicity,
		RightAssetName:    rightAssetName,
		RightFieldName:    rightFieldName,
		RightMultiplicity: rightMultiplicity,
	}, nil
}

// build links the association's two fields to leftAsset and rightAsset,
// cross-references them as each other's target, attaches them to their
// owning assets' local field sets, and returns the finished
// Association. It fails with DuplicateName if either asset already has
// a field of that name (including one inherited from a super-asset).
func (ab *AssociationBuilder) build(leftAsset, rightAsset *Asset) (*Association, error) {
	if _, exists := leftAsset.Field(ab.LeftFieldName); exists {
		return nil, langerrors.New(langerrors.DuplicateName, leftAsset.name+"."+ab.LeftFieldName, "duplicate field name")
	}
	if _, exists := rightAsset.Field(ab.RightFieldName); exists {
		return nil, langerrors.New(langerrors.DuplicateName, rightAsset.name+"."+ab.RightFieldName, "duplicate field name")
	}

	var m *meta.Meta
	if ab.Meta != nil {
		m = ab.Meta.Build()
	} else {
		m = meta.Empty()
	}

	left := &Field{name: ab.LeftFieldName, owningAsset: leftAsset, multiplicity: ab.LeftMultiplicity}
	right := &Field{name: ab.RightFieldName, owningAsset: rightAsset, multiplicity: ab.RightMultiplicity}
	left.target = right
	right.target = left

	assoc := &Association{name: ab.Name, meta: m, leftField: left, rightField: right}
	left.association = assoc
	right.association = assoc

	leftAsset.localFields = append(leftAsset.localFields, left)
	leftAsset.fieldsByName[left.name] = left
	rightAsset.localFields = append(rightAsset.localFields, right)
	rightAsset.fieldsByName[right.name] = right

	return assoc, nil
}
