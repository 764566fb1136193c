package meta

import (
	"math"
	"testing"

	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_PreservesOrderAndRejectsDuplicates(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddEntry("author", "foreseeti"))
	require.NoError(t, b.AddEntry("version", "1.0.0"))

	err := b.AddEntry("author", "someone-else")
	require.Error(t, err)
	assert.True(t, langerrors.IsDuplicateName(err))

	m := b.Build()
	assert.Equal(t, []string{"author", "version"}, m.Keys())
	v, ok := m.Get("author")
	assert.True(t, ok)
	assert.Equal(t, "foreseeti", v)
}

func TestBuilder_RejectsInvalidIdentifierKey(t *testing.T) {
	b := NewBuilder()
	err := b.AddEntry("1bad", "x")
	require.Error(t, err)
	assert.True(t, langerrors.IsInvalidIdentifier(err))
}

func TestNewMultiplicity(t *testing.T) {
	m, err := NewMultiplicity(0, math.Inf(1))
	require.NoError(t, err)
	assert.True(t, m.IsUnbounded())

	m, err = NewMultiplicity(1, 1)
	require.NoError(t, err)
	assert.False(t, m.IsUnbounded())

	_, err = NewMultiplicity(2, 1)
	assert.Error(t, err)

	_, err = NewMultiplicity(0, 2)
	assert.Error(t, err)
}

func TestRiskTagsRoundTrip(t *testing.T) {
	r := Risk{Confidentiality: true, Availability: true}
	assert.Equal(t, []string{"confidentiality", "availability"}, r.Tags())

	decoded := RiskFromTags([]string{"availability", "confidentiality", "availability"})
	assert.Equal(t, r, decoded)
}
