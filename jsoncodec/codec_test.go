package jsoncodec

import (
	"math"
	"testing"

	langspec "github.com/mal-lang/mal-langspec"
	"github.com/mal-lang/mal-langspec/meta"
	"github.com/mal-lang/mal-langspec/step"
	"github.com/mal-lang/mal-langspec/ttc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleLang(t *testing.T) *langspec.Lang {
	b := langspec.NewBuilder()
	require.NoError(t, b.AddDefine("id", "org.example.sample"))
	require.NoError(t, b.AddDefine("version", "1.0.0"))

	cb, err := langspec.NewCategoryBuilder("System")
	require.NoError(t, err)
	require.NoError(t, b.AddCategory(cb))

	host, err := langspec.NewAssetBuilder("Host", "System")
	require.NoError(t, err)
	app, err := langspec.NewAssetBuilder("App", "System")
	require.NoError(t, err)

	exp, err := ttc.Lookup("Exponential")
	require.NoError(t, err)
	expExpr, err := ttc.NewFunction(exp, []float64{0.5})
	require.NoError(t, err)

	exploit, err := langspec.NewAttackStepBuilder("exploit", langspec.Or)
	require.NoError(t, err)
	exploit.Tags = []string{"interesting"}
	exploit.TTC = expExpr
	require.NoError(t, app.AddAttackStep(exploit))

	vb, err := langspec.NewVariableBuilder("v", &step.Builder{Kind: step.FieldRef, Name: "apps"})
	require.NoError(t, err)
	require.NoError(t, host.AddVariable(vb))

	onHost, err := langspec.NewAttackStepBuilder("onHost", langspec.Or)
	require.NoError(t, err)
	onHost.Reaches = &langspec.StepsBuilder{Exprs: []*step.Builder{
		{
			Kind: step.Collect,
			Lhs:  &step.Builder{Kind: step.FieldRef, Name: "apps"},
			Rhs:  &step.Builder{Kind: step.AttackStepRef, Name: "exploit"},
		},
	}}
	require.NoError(t, host.AddAttackStep(onHost))

	require.NoError(t, b.AddAsset(host))
	require.NoError(t, b.AddAsset(app))

	m01, err := meta.NewMultiplicity(0, math.Inf(1))
	require.NoError(t, err)
	one, err := meta.NewMultiplicity(1, 1)
	require.NoError(t, err)
	assoc, err := langspec.NewAssociationBuilder("Runs", "Host", "apps", m01, "App", "host", one)
	require.NoError(t, err)
	b.AddAssociation(assoc)

	lang, err := b.Build()
	require.NoError(t, err)
	return lang
}

func TestEncodeParse_RoundTrips(t *testing.T) {
	lang := buildSampleLang(t)

	data, err := Encode(lang)
	require.NoError(t, err)

	decoded, err := Parse(data)
	require.NoError(t, err)

	v, ok := decoded.Define("id")
	require.True(t, ok)
	assert.Equal(t, "org.example.sample", v)

	host, ok := decoded.Asset("Host")
	require.True(t, ok)
	onHost, ok := host.AttackStep("onHost")
	require.True(t, ok)
	require.Len(t, onHost.Reaches().Exprs, 1)
	assert.Equal(t, "App", onHost.Reaches().Exprs[0].TargetAsset.Name())

	app, ok := decoded.Asset("App")
	require.True(t, ok)
	exploit, ok := app.AttackStep("exploit")
	require.True(t, ok)
	assert.Equal(t, []string{"interesting"}, exploit.Tags())
	require.NotNil(t, exploit.TTC())
	assert.InDelta(t, 2.0, exploit.TTC().MeanTtc(), 1e-9)
}

func TestEncode_CanonicalReserializeIsStable(t *testing.T) {
	lang := buildSampleLang(t)

	first, err := Encode(lang)
	require.NoError(t, err)

	decoded, err := Parse(first)
	require.NoError(t, err)

	second, err := Encode(decoded)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestDecode_RejectsMissingRequiredField(t *testing.T) {
	_, err := Decode([]byte(`{"formatVersion":"1.0.0","categories":[],"assets":[],"associations":[]}`))
	require.Error(t, err)
}

func TestDecode_RejectsBadFormatVersion(t *testing.T) {
	_, err := Decode([]byte(`{"formatVersion":"9.9.9","defines":{"id":"x","version":"1"},"categories":[],"assets":[],"associations":[]}`))
	require.Error(t, err)
}

func TestDecode_RejectsInvalidIdentifier(t *testing.T) {
	_, err := Decode([]byte(`{"formatVersion":"1.0.0","defines":{"id":"x","version":"1"},"categories":[{"name":"1Bad","meta":{}}],"assets":[],"associations":[]}`))
	require.Error(t, err)
}

func TestDecodeWithOptions_StrictSchemaRejectsEmptyDocument(t *testing.T) {
	data := []byte(`{"formatVersion":"1.0.0","defines":{"id":"x","version":"1"},"categories":[],"assets":[],"associations":[]}`)

	_, err := DecodeWithOptions(data)
	require.NoError(t, err)

	_, err = DecodeWithOptions(data, langspec.WithStrictSchema(true))
	require.Error(t, err)
}

func TestParseWithOptions_PropagatesStrictSchema(t *testing.T) {
	data := []byte(`{"formatVersion":"1.0.0","defines":{"id":"x","version":"1"},"categories":[],"assets":[],"associations":[]}`)
	_, err := ParseWithOptions(data, langspec.WithStrictSchema(true))
	require.Error(t, err)
}
