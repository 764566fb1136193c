package langspec

import (
	"github.com/mal-lang/mal-langspec/identifier"
	"github.com/mal-lang/mal-langspec/meta"
)

// Category groups a set of assets under a named heading. An asset
// belongs to exactly one category.
type Category struct {
	name   string
	meta   *meta.Meta
	assets []*Asset
}

// Name returns the category's name.
func (c *Category) Name() string { return c.name }

// Meta returns the category's meta entries.
func (c *Category) Meta() *meta.Meta { return c.meta }

// Assets returns the assets in this category, in declaration order.
func (c *Category) Assets() []*Asset {
	return append([]*Asset(nil), c.assets...)
}

// CategoryBuilder collects a category's name, meta, and membership
// before the Lang builder links it into the graph.
type CategoryBuilder struct {
	Name string
	Meta *meta.Builder
}

// NewCategoryBuilder starts a CategoryBuilder for the given name,
// eagerly validating it as an identifier.
func NewCategoryBuilder(name string) (*CategoryBuilder, error) {
	if err := identifier.Check(name); err != nil {
		return nil, err
	}
	return &CategoryBuilder{Name: name, Meta: meta.NewBuilder()}, nil
}

func (cb *CategoryBuilder) build() *Category {
	var m *meta.Meta
	if cb.Meta != nil {
		m = cb.Meta.Build()
	} else {
		m = meta.Empty()
	}
	return &Category{name: cb.Name, meta: m}
}
