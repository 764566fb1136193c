package langspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLang_DefinesLicenseNotice(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.AddDefine("author", "someone"))
	require.NoError(t, b.AddCategory(mustCategory(t, "C")))
	require.NoError(t, b.AddAsset(mustAsset(t, "A", "C")))
	b.SetLicense("Apache-2.0")
	b.SetNotice("copyright notice")

	lang, err := b.Build()
	require.NoError(t, err)

	v, ok := lang.Define("author")
	require.True(t, ok)
	assert.Equal(t, "someone", v)
	assert.True(t, lang.HasDefine("id"))
	assert.False(t, lang.HasDefine("missing"))

	license, ok := lang.License()
	require.True(t, ok)
	assert.Equal(t, "Apache-2.0", license)

	notice, ok := lang.Notice()
	require.True(t, ok)
	assert.Equal(t, "copyright notice", notice)

	cats := lang.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "C", cats[0].Name())
}

func TestLang_AssetNotFound(t *testing.T) {
	b := newTestBuilder(t)
	require.NoError(t, b.AddCategory(mustCategory(t, "C")))
	require.NoError(t, b.AddAsset(mustAsset(t, "A", "C")))
	lang, err := b.Build()
	require.NoError(t, err)

	_, ok := lang.Asset("NotThere")
	assert.False(t, ok)
}
