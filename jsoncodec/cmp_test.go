package jsoncodec

import (
	"testing"

	langspec "github.com/mal-lang/mal-langspec"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// langSnapshot is a comparable projection of the parts of a *langspec.Lang
// that the JSON codec is responsible for round-tripping. Lang itself is
// deliberately free of exported fields (§9), so a structural diff needs a
// projection built from its accessor methods rather than cmp.Diff on the
// type itself.
type langSnapshot struct {
	Defines      map[string]string
	Assets       []string
	AttackSteps  map[string][]string
	Associations []string
}

func snapshot(lang *langspec.Lang) langSnapshot {
	s := langSnapshot{
		Defines:     map[string]string{},
		AttackSteps: map[string][]string{},
	}
	for _, k := range lang.Defines().Keys() {
		v, _ := lang.Define(k)
		s.Defines[k] = v
	}
	for _, a := range lang.Assets() {
		s.Assets = append(s.Assets, a.Name())
		for _, as := range a.AttackSteps() {
			s.AttackSteps[a.Name()] = append(s.AttackSteps[a.Name()], as.Name())
		}
	}
	for _, assoc := range lang.Associations() {
		s.Associations = append(s.Associations, assoc.Name())
	}
	return s
}

// TestEncodeParse_StructurallyIdempotent diffs the snapshot of a
// hand-built Lang against the snapshot of that same Lang after one
// Encode/Parse round trip, the way a reviewer comparing two fixtures
// would rather than staring at raw JSON.
func TestEncodeParse_StructurallyIdempotent(t *testing.T) {
	lang := buildSampleLang(t)

	data, err := Encode(lang)
	require.NoError(t, err)
	roundTripped, err := Parse(data)
	require.NoError(t, err)

	if diff := cmp.Diff(snapshot(lang), snapshot(roundTripped)); diff != "" {
		t.Fatalf("round trip changed structure:\n%s", diff)
	}
}
