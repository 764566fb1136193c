// Package identifier implements the name grammar shared by every named
// entity in a Lang: categories, assets, fields, associations, attack
// steps, variables, meta keys, tags, defines keys, and TTC distribution
// names are all identifiers.
package identifier

import (
	"github.com/mal-lang/mal-langspec/errors"
)

// Is reports whether s is a valid identifier: a nonempty string matching
// ^[A-Za-z_][A-Za-z0-9_]*$.
func Is(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isStart(r) {
				return false
			}
			continue
		}
		if !isPart(r) {
			return false
		}
	}
	return true
}

// Check validates s as an identifier, returning an InvalidIdentifier
// LangError naming s when it is not.
func Check(s string) error {
	if !Is(s) {
		return errors.New(errors.InvalidIdentifier, s, "must match ^[A-Za-z_][A-Za-z0-9_]*$")
	}
	return nil
}

func isStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isPart(r rune) bool {
	return isStart(r) || (r >= '0' && r <= '9')
}
