// Package errors provides the typed error taxonomy used by the resolver,
// JSON codec, and archive codec.
//
// Every failure in this module surfaces as a *LangError carrying a Kind
// (one of the kinds listed below), the offending entity, and — when the
// failure wraps an underlying cause such as a JSON decode error or an I/O
// error — that cause via Unwrap. Builders raise identifier/nil-check
// LangErrors eagerly, on each setter; the resolver raises the rest at
// Build. A failed Build never leaves a partially linked graph reachable
// from the caller.
//
//	if _, err := lb.Build(); err != nil {
//	    var le *errors.LangError
//	    if errors.As(err, &le) && le.Kind == errors.SuperAssetCycle {
//	        // handle cycle specifically
//	    }
//	}
//
// Kind-specific predicates (IsSchemaViolation, IsUnknownReference, ...)
// wrap errors.As so callers do not need to unwrap LangError by hand.
package errors
