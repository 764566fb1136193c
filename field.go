package langspec

import (
	"github.com/mal-lang/mal-langspec/meta"
	"github.com/mal-lang/mal-langspec/step"
)

// Field is one named endpoint of an Association, owned by an asset and
// pointing at a target Field on the peer asset. Fields exist only as
// the two ends of an association; there is no standalone field
// constructor.
type Field struct {
	name         string
	owningAsset  *Asset
	multiplicity meta.Multiplicity
	association  *Association
	target       *Field
}

// Name returns the field's name.
func (f *Field) Name() string { return f.name }

// OwningAsset returns the asset this field is attached to.
func (f *Field) OwningAsset() *Asset { return f.owningAsset }

// Multiplicity returns the field's multiplicity.
func (f *Field) Multiplicity() meta.Multiplicity { return f.multiplicity }

// Association returns the association this field is an endpoint of.
func (f *Field) Association() *Association { return f.association }

// Target returns the field at the other end of the association.
func (f *Field) Target() *Field { return f.target }

// TargetAsset returns the asset owning the field at the other end of
// the association — satisfies step.Field.
func (f *Field) TargetAsset() step.Asset { return f.target.owningAsset }
