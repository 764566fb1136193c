package langspec

import (
	"math"
	"testing"

	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssociationBuilder_RejectsDuplicateFieldName(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.AddCategory(mustCategory(t, "C")))

	host := mustAsset(t, "Host", "C")
	app := mustAsset(t, "App", "C")
	require.NoError(t, b.AddAsset(host))
	require.NoError(t, b.AddAsset(app))

	m, err := meta.NewMultiplicity(0, math.Inf(1))
	require.NoError(t, err)
	one, err := meta.NewMultiplicity(1, 1)
	require.NoError(t, err)

	first, err := NewAssociationBuilder("Runs", "Host", "apps", m, "App", "host", one)
	require.NoError(t, err)
	b.AddAssociation(first)

	second, err := NewAssociationBuilder("RunsAgain", "Host", "apps", m, "App", "elsewhere", one)
	require.NoError(t, err)
	b.AddAssociation(second)

	_, err = b.Build()
	require.Error(t, err)
	assert.True(t, langerrors.IsDuplicateName(err))
}

func TestAssociationBuilder_CrossLinksFields(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.AddCategory(mustCategory(t, "C")))

	host := mustAsset(t, "Host", "C")
	app := mustAsset(t, "App", "C")
	require.NoError(t, b.AddAsset(host))
	require.NoError(t, b.AddAsset(app))

	m, err := meta.NewMultiplicity(0, math.Inf(1))
	require.NoError(t, err)
	one, err := meta.NewMultiplicity(1, 1)
	require.NoError(t, err)
	assoc, err := NewAssociationBuilder("Runs", "Host", "apps", m, "App", "host", one)
	require.NoError(t, err)
	b.AddAssociation(assoc)

	lang, err := b.Build()
	require.NoError(t, err)

	h, _ := lang.Asset("Host")
	apps, ok := h.Field("apps")
	require.True(t, ok)
	assert.Equal(t, "host", apps.Target().Name())
	assert.Equal(t, "App", apps.TargetAsset().Name())

	got, ok := lang.Association("Runs", "Host", "App")
	require.True(t, ok)
	assert.Equal(t, apps, got.LeftField())
}
