// Package meta implements the small value types shared by every entity
// in a Lang: an order-preserving identifier-to-string map, multiplicity
// pairs, and the confidentiality/integrity/availability risk triple.
package meta

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/identifier"
)

// Meta is an immutable, order-preserving mapping from identifier to
// string. Iterate with Keys to observe insertion order.
type Meta struct {
	keys   []string
	values map[string]string
}

// Builder accumulates meta entries before Build produces an immutable
// Meta. The zero value is ready to use.
type Builder struct {
	keys   []string
	values map[string]string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{values: make(map[string]string)}
}

// AddEntry records key -> value. It rejects an invalid identifier key and
// a key already present in this builder.
func (b *Builder) AddEntry(key, value string) error {
	if err := identifier.Check(key); err != nil {
		return err
	}
	if b.values == nil {
		b.values = make(map[string]string)
	}
	if _, ok := b.values[key]; ok {
		return errors.New(errors.DuplicateName, key, "duplicate meta key")
	}
	b.keys = append(b.keys, key)
	b.values[key] = value
	return nil
}

// Build produces an immutable Meta snapshot of this builder's entries.
func (b *Builder) Build() *Meta {
	m := &Meta{
		keys:   append([]string(nil), b.keys...),
		values: make(map[string]string, len(b.values)),
	}
	for k, v := range b.values {
		m.values[k] = v
	}
	return m
}

// Empty returns a Meta with no entries.
func Empty() *Meta {
	return &Meta{values: map[string]string{}}
}

// Keys returns the meta keys in insertion order.
func (m *Meta) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Get returns the value for key and whether it was present.
func (m *Meta) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Meta) Len() int {
	return len(m.keys)
}

// MarshalJSON renders m as a JSON object with its keys in insertion
// order. encoding/json always sorts a plain map's keys alphabetically,
// which would silently reorder defines and meta entries on every
// canonical serialization; implementing json.Marshaler directly on the
// type that owns the order invariant avoids that.
func (m *Meta) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Multiplicity is a (min, max) pair with min in {0, 1} and max in
// {1, +Inf}. Infinite max is represented in JSON by the absence of the
// max key and here by math.Inf(1).
type Multiplicity struct {
	Min int
	Max float64
}

// NewMultiplicity validates and constructs a Multiplicity.
func NewMultiplicity(min int, max float64) (Multiplicity, error) {
	if min != 0 && min != 1 {
		return Multiplicity{}, errors.New(errors.InvalidIdentifier, "", "multiplicity min must be 0 or 1")
	}
	if max != 1 && !math.IsInf(max, 1) {
		return Multiplicity{}, errors.New(errors.InvalidIdentifier, "", "multiplicity max must be 1 or infinite")
	}
	return Multiplicity{Min: min, Max: max}, nil
}

// IsUnbounded reports whether Max is infinite.
func (m Multiplicity) IsUnbounded() bool {
	return math.IsInf(m.Max, 1)
}

// Risk is the confidentiality/integrity/availability triple attached to
// an attack step.
type Risk struct {
	Confidentiality bool
	Integrity       bool
	Availability    bool
}

// Tags returns the subset of "confidentiality", "integrity",
// "availability" that are set, in that fixed canonical order — the order
// the JSON codec always serializes in, regardless of how the triple was
// constructed.
func (r Risk) Tags() []string {
	var tags []string
	if r.Confidentiality {
		tags = append(tags, "confidentiality")
	}
	if r.Integrity {
		tags = append(tags, "integrity")
	}
	if r.Availability {
		tags = append(tags, "availability")
	}
	return tags
}

// RiskFromTags decodes a risk triple from an unordered, possibly
// duplicated list of the three literal tags, as the JSON parser accepts
// on read even though the canonical serializer never emits duplicates.
func RiskFromTags(tags []string) Risk {
	var r Risk
	for _, t := range tags {
		switch t {
		case "confidentiality":
			r.Confidentiality = true
		case "integrity":
			r.Integrity = true
		case "availability":
			r.Availability = true
		}
	}
	return r
}
