package langspec

import (
	"github.com/mal-lang/mal-langspec/identifier"
	"github.com/mal-lang/mal-langspec/step"
)

// Variable is a named step expression scoped to an owning asset. Its
// expression's source asset is always the owning asset.
type Variable struct {
	name        string
	owningAsset *Asset
	expression  *step.Node
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// OwningAsset returns the asset the variable is declared on.
func (v *Variable) OwningAsset() *Asset { return v.owningAsset }

// Expression returns the variable's resolved step-expression.
func (v *Variable) Expression() *step.Node { return v.expression }

// VariableBuilder collects a variable's name and unresolved expression
// before the resolver types it.
type VariableBuilder struct {
	Name       string
	Expression *step.Builder
}

// NewVariableBuilder starts a VariableBuilder for the given name,
// eagerly validating it as an identifier.
func NewVariableBuilder(name string, expression *step.Builder) (*VariableBuilder, error) {
	if err := identifier.Check(name); err != nil {
		return nil, err
	}
	return &VariableBuilder{Name: name, Expression: expression}, nil
}
