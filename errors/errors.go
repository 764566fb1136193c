// Package errors provides the typed error taxonomy used across the
// langspec module: builders, the resolver, the JSON codec, and the
// archive codec all report failures as a *LangError.
package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies a LangError for programmatic handling.
type Kind int

const (
	// InvalidIdentifier: a name fails the identifier grammar.
	InvalidIdentifier Kind = iota
	// DuplicateName: two entities of the same kind share a name where
	// uniqueness is required.
	DuplicateName
	// UnknownReference: a by-name reference did not resolve.
	UnknownReference
	// SuperAssetCycle: the super-asset relation is not a forest.
	SuperAssetCycle
	// VariableCycle: a variable's body refers to a variable whose
	// target asset is not yet known.
	VariableCycle
	// NoCommonSuperAsset: no LUB exists for a union/intersection/difference.
	NoCommonSuperAsset
	// IncompatibleSubType: a subType target is not a subtype of the inner
	// expression's target.
	IncompatibleSubType
	// TransitiveNonUniform: a transitive's inner expression has unequal
	// source and target assets.
	TransitiveNonUniform
	// StepTypeMismatch: an overriding attack step's type differs from its
	// super-step's type.
	StepTypeMismatch
	// RequiresOnNonExistenceStep: requires was set on a step whose type is
	// not EXIST or NOT_EXIST.
	RequiresOnNonExistenceStep
	// InvalidDistributionArguments: a TTC function's arguments fail the
	// named distribution's validation.
	InvalidDistributionArguments
	// SchemaViolation: a JSON document does not conform to the langspec
	// schema.
	SchemaViolation
	// ArchiveMissingLangSpec: an archive has no langspec.json member.
	ArchiveMissingLangSpec
	// IO: an underlying I/O error from the archive codec's stream.
	IO
)

// String returns the lower-camel-case name used in JSON error payloads
// and log fields.
func (k Kind) String() string {
	switch k {
	case InvalidIdentifier:
		return "invalidIdentifier"
	case DuplicateName:
		return "duplicateName"
	case UnknownReference:
		return "unknownReference"
	case SuperAssetCycle:
		return "superAssetCycle"
	case VariableCycle:
		return "variableCycle"
	case NoCommonSuperAsset:
		return "noCommonSuperAsset"
	case IncompatibleSubType:
		return "incompatibleSubType"
	case TransitiveNonUniform:
		return "transitiveNonUniform"
	case StepTypeMismatch:
		return "stepTypeMismatch"
	case RequiresOnNonExistenceStep:
		return "requiresOnNonExistenceStep"
	case InvalidDistributionArguments:
		return "invalidDistributionArguments"
	case SchemaViolation:
		return "schemaViolation"
	case ArchiveMissingLangSpec:
		return "archiveMissingLangSpec"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// LangError is the concrete error type returned by every package in this
// module. Entity carries whatever name or path identifies the offending
// entity (an asset name, a JSON pointer, a super-asset chain); its shape
// depends on Kind and is meant for display, not programmatic matching.
type LangError struct {
	Kind          Kind
	Entity        string
	Message       string
	Err           error
	CorrelationID string
}

// Error implements the error interface.
func (e *LangError) Error() string {
	var msg string
	switch {
	case e.Message != "" && e.Entity != "":
		msg = fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.Message)
	case e.Entity != "":
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Entity)
	default:
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause, if any.
func (e *LangError) Unwrap() error {
	return e.Err
}

// New creates a LangError of the given kind naming entity, stamped with a
// fresh correlation ID for log/error correlation.
func New(kind Kind, entity, message string) *LangError {
	return &LangError{
		Kind:          kind,
		Entity:        entity,
		Message:       message,
		CorrelationID: uuid.NewString(),
	}
}

// Wrap creates a LangError of the given kind around an existing cause.
func Wrap(kind Kind, entity string, err error) *LangError {
	if err == nil {
		return nil
	}
	return &LangError{
		Kind:          kind,
		Entity:        entity,
		Err:           err,
		CorrelationID: uuid.NewString(),
	}
}

func is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var le *LangError
	if errors.As(err, &le) {
		return le.Kind == kind
	}
	return false
}

// IsInvalidIdentifier reports whether err is (or wraps) an
// InvalidIdentifier LangError.
func IsInvalidIdentifier(err error) bool { return is(err, InvalidIdentifier) }

// IsDuplicateName reports whether err is (or wraps) a DuplicateName
// LangError.
func IsDuplicateName(err error) bool { return is(err, DuplicateName) }

// IsUnknownReference reports whether err is (or wraps) an
// UnknownReference LangError.
func IsUnknownReference(err error) bool { return is(err, UnknownReference) }

// IsSuperAssetCycle reports whether err is (or wraps) a SuperAssetCycle
// LangError.
func IsSuperAssetCycle(err error) bool { return is(err, SuperAssetCycle) }

// IsVariableCycle reports whether err is (or wraps) a VariableCycle
// LangError.
func IsVariableCycle(err error) bool { return is(err, VariableCycle) }

// IsNoCommonSuperAsset reports whether err is (or wraps) a
// NoCommonSuperAsset LangError.
func IsNoCommonSuperAsset(err error) bool { return is(err, NoCommonSuperAsset) }

// IsSchemaViolation reports whether err is (or wraps) a SchemaViolation
// LangError.
func IsSchemaViolation(err error) bool { return is(err, SchemaViolation) }

// IsArchiveMissingLangSpec reports whether err is (or wraps) an
// ArchiveMissingLangSpec LangError.
func IsArchiveMissingLangSpec(err error) bool { return is(err, ArchiveMissingLangSpec) }

// As exposes errors.As for callers that only import this package.
func As(err error, target any) bool { return errors.As(err, target) }

// Is exposes errors.Is for callers that only import this package.
func Is(err, target error) bool { return errors.Is(err, target) }
