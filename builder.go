package langspec

import (
	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/meta"
)

// Builder collects a Lang's declaration — defines, categories, assets,
// associations, and packaging text — before Build resolves it into an
// immutable Lang. A Builder is not thread-safe and must be confined to
// one goroutine; a failed Build leaves it untouched.
//
// The original implementation splits this role across a Lang.Builder
// and a separate LangBuilder with identical responsibilities; this
// type consolidates both into one.
type Builder struct {
	Defines *meta.Builder

	categoryOrder []string
	categories    map[string]*CategoryBuilder

	assetOrder []string
	assets     map[string]*AssetBuilder

	associations []*AssociationBuilder

	License    string
	HasLicense bool
	Notice     string
	HasNotice  bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		Defines:    meta.NewBuilder(),
		categories: map[string]*CategoryBuilder{},
		assets:     map[string]*AssetBuilder{},
	}
}

// AddDefine records a key/value pair in the defines map.
func (b *Builder) AddDefine(key, value string) error {
	return b.Defines.AddEntry(key, value)
}

// AddCategory registers cb, keyed by its name. Unlike the original's
// map-based collector, which silently replaces a same-named builder,
// this rejects the duplicate per §7's DuplicateName invariant.
func (b *Builder) AddCategory(cb *CategoryBuilder) error {
	if _, exists := b.categories[cb.Name]; exists {
		return langerrors.New(langerrors.DuplicateName, cb.Name, "duplicate category name")
	}
	b.categoryOrder = append(b.categoryOrder, cb.Name)
	b.categories[cb.Name] = cb
	return nil
}

// AddAsset registers ab, keyed by its name.
func (b *Builder) AddAsset(ab *AssetBuilder) error {
	if _, exists := b.assets[ab.Name]; exists {
		return langerrors.New(langerrors.DuplicateName, ab.Name, "duplicate asset name")
	}
	b.assetOrder = append(b.assetOrder, ab.Name)
	b.assets[ab.Name] = ab
	return nil
}

// AssetBuilder returns the asset builder registered under name, for
// callers (the archive codec) that attach data discovered outside the
// JSON document itself, such as icon bytes.
func (b *Builder) AssetBuilder(name string) (*AssetBuilder, bool) {
	ab, ok := b.assets[name]
	return ab, ok
}

// AddAssociation appends ab to the association list.
func (b *Builder) AddAssociation(ab *AssociationBuilder) {
	b.associations = append(b.associations, ab)
}

// SetLicense sets the archive's license text.
func (b *Builder) SetLicense(text string) {
	b.License = text
	b.HasLicense = true
}

// SetNotice sets the archive's notice text.
func (b *Builder) SetNotice(text string) {
	b.Notice = text
	b.HasNotice = true
}

// Build runs the two-phase linker (§4.5) over the collected builders
// and returns the finished, immutable Lang, or the first typed error
// encountered. It is equivalent to BuildWithOptions() with no options.
func (b *Builder) Build() (*Lang, error) {
	return b.BuildWithOptions()
}

// BuildWithOptions runs the linker the way Build does, additionally
// applying opts — in particular, routing phase-boundary debug events to
// opts' Logger.
func (b *Builder) BuildWithOptions(opts ...Option) (*Lang, error) {
	o := ApplyOptions(opts...)
	r := &resolver{b: b, opts: o}
	return r.run()
}
