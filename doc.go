// Package langspec provides the in-memory object model, resolver, and
// bidirectional serializer for a MAL-family threat-modeling language
// descriptor (a "Lang").
//
// # Shape
//
// A Lang describes, at meta-model altitude, the vocabulary of a threat
// language: asset types and their inheritance, the associations between
// them, the attack steps and defenses defined on each asset, the
// step-expressions that connect attack steps across the asset graph, and
// the time-to-compromise (TTC) expressions attached to steps.
//
// Construction goes through a mutable Builder. Builder.Build consumes the
// builder and either returns a fully linked, immutable *Lang or a typed
// error from the errors package; a failed build never exposes a partial
// graph and never mutates the builder that produced it.
//
// # Packages
//
//   - github.com/mal-lang/mal-langspec — Lang, Category, Asset, Field,
//     Association, Variable, AttackStep, and the Builder/resolver pair.
//   - .../identifier — the identifier grammar shared by every named entity.
//   - .../meta — Meta, Multiplicity, Risk.
//   - .../ttc — the TTC expression algebra and distribution catalog.
//   - .../step — the step-expression algebra and least-upper-bound typing.
//   - .../jsoncodec — schema-validated JSON encode/decode of a Lang.
//   - .../archive — the zip ".mar" container around the JSON document.
//   - .../errors — typed, classified errors shared across the module.
//
// # What this package is not
//
// langspec does not compile MAL source text, does not execute attack
// simulations against a resolved Lang, and does not render icons. A built
// Lang is deeply immutable; concurrent read-only access requires no
// locking, but Builder values are not safe for concurrent use.
package langspec
