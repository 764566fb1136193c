package langspec

import (
	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/meta"
)

// Lang is the fully resolved, immutable descriptor of a MAL-family
// threat-modeling language: its categories, assets, associations, and
// packaging metadata. A Lang is only ever produced by Builder.Build; it
// never mutates thereafter and is safe for concurrent read-only access.
type Lang struct {
	defines      *meta.Meta
	categories   []*Category
	categoryByName map[string]*Category
	assets       []*Asset
	assetByName  map[string]*Asset
	associations []*Association
	license      string
	notice       string
	hasLicense   bool
	hasNotice    bool
}

// HasDefine reports whether key is a define in this Lang.
func (l *Lang) HasDefine(key string) bool {
	_, ok := l.defines.Get(key)
	return ok
}

// Define returns the value of the define named key, or ok=false if
// absent.
func (l *Lang) Define(key string) (string, bool) {
	return l.defines.Get(key)
}

// Defines returns all defines of this Lang.
func (l *Lang) Defines() *meta.Meta { return l.defines }

// Category returns the category named name, or ok=false if absent.
func (l *Lang) Category(name string) (*Category, bool) {
	c, ok := l.categoryByName[name]
	return c, ok
}

// Categories returns all categories, in declaration order.
func (l *Lang) Categories() []*Category {
	return append([]*Category(nil), l.categories...)
}

// Asset returns the asset named name, or ok=false if absent.
func (l *Lang) Asset(name string) (*Asset, bool) {
	a, ok := l.assetByName[name]
	return a, ok
}

// Assets returns all assets, in declaration order.
func (l *Lang) Assets() []*Asset {
	return append([]*Asset(nil), l.assets...)
}

// Associations returns all associations, in declaration order.
func (l *Lang) Associations() []*Association {
	return append([]*Association(nil), l.associations...)
}

// Association returns the association named name whose endpoints are
// leftAsset and rightAsset, or ok=false if no such association exists.
// Disambiguation by asset pair follows §3's invariant that an
// association name need only be unique within a given (leftAsset,
// rightAsset) pair.
func (l *Lang) Association(name, leftAsset, rightAsset string) (*Association, bool) {
	for _, a := range l.associations {
		if a.name == name &&
			a.leftField.owningAsset.name == leftAsset &&
			a.rightField.owningAsset.name == rightAsset {
			return a, true
		}
	}
	return nil, false
}

// License returns the archive's license text and whether one is set.
func (l *Lang) License() (string, bool) { return l.license, l.hasLicense }

// Notice returns the archive's notice text and whether one is set.
func (l *Lang) Notice() (string, bool) { return l.notice, l.hasNotice }

func requireDefines(d *meta.Meta) error {
	for _, key := range []string{"id", "version"} {
		if _, ok := d.Get(key); !ok {
			return langerrors.New(langerrors.SchemaViolation, key, "defines must contain \""+key+"\"")
		}
	}
	return nil
}
