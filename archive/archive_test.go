package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	langspec "github.com/mal-lang/mal-langspec"
	langerrors "github.com/mal-lang/mal-langspec/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTrip exercises S6: a Lang with one asset carrying a 10-byte
// SVG icon and an Apache-2.0 LICENSE, written to a buffer and read back.
func TestRoundTrip(t *testing.T) {
	b := langspec.NewBuilder()
	require.NoError(t, b.AddDefine("id", "org.example.icons"))
	require.NoError(t, b.AddDefine("version", "1.0.0"))

	cb, err := langspec.NewCategoryBuilder("System")
	require.NoError(t, err)
	require.NoError(t, b.AddCategory(cb))

	ab, err := langspec.NewAssetBuilder("Host", "System")
	require.NoError(t, err)
	svg := []byte("0123456789")
	ab.SvgIcon = svg
	require.NoError(t, b.AddAsset(ab))

	b.SetLicense("Apache-2.0")

	lang, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, lang))

	reopened, err := Read(buf.Bytes())
	require.NoError(t, err)

	host, ok := reopened.Asset("Host")
	require.True(t, ok)
	assert.Equal(t, svg, host.LocalSvgIcon())

	license, ok := reopened.License()
	require.True(t, ok)
	assert.Equal(t, "Apache-2.0", license)

	_, ok = reopened.Define("id")
	require.True(t, ok)
}

func TestRead_MissingLangSpecIsFatal(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(licenseMember)
	require.NoError(t, err)
	_, err = w.Write([]byte("Apache-2.0"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Read(buf.Bytes())
	require.Error(t, err)
	assert.True(t, langerrors.IsArchiveMissingLangSpec(err))
}

// TestReadWithOptions_MaxIconsRejectsOversizedArchive builds a Lang with
// two icon-bearing assets and confirms a MaxIcons(1) cap rejects the
// archive on the second icon member.
func TestReadWithOptions_MaxIconsRejectsOversizedArchive(t *testing.T) {
	b := langspec.NewBuilder()
	require.NoError(t, b.AddDefine("id", "org.example.icons"))
	require.NoError(t, b.AddDefine("version", "1.0.0"))

	cb, err := langspec.NewCategoryBuilder("System")
	require.NoError(t, err)
	require.NoError(t, b.AddCategory(cb))

	for _, name := range []string{"Host", "Router"} {
		ab, err := langspec.NewAssetBuilder(name, "System")
		require.NoError(t, err)
		ab.SvgIcon = []byte("0123456789")
		require.NoError(t, b.AddAsset(ab))
	}

	lang, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, lang))

	_, err = ReadWithOptions(buf.Bytes(), langspec.WithMaxIcons(1))
	require.Error(t, err)

	reopened, err := ReadWithOptions(buf.Bytes(), langspec.WithMaxIcons(2))
	require.NoError(t, err)
	_, ok := reopened.Asset("Host")
	require.True(t, ok)
}

// TestWriteWithOptions_ProducesReadableArchive exercises the
// WriteWithOptions path directly (rather than through the Write wrapper)
// to confirm it produces the same archive.
func TestWriteWithOptions_ProducesReadableArchive(t *testing.T) {
	b := langspec.NewBuilder()
	require.NoError(t, b.AddDefine("id", "org.example.icons"))
	require.NoError(t, b.AddDefine("version", "1.0.0"))
	cb, err := langspec.NewCategoryBuilder("System")
	require.NoError(t, err)
	require.NoError(t, b.AddCategory(cb))
	ab, err := langspec.NewAssetBuilder("Host", "System")
	require.NoError(t, err)
	ab.SvgIcon = []byte("0123456789")
	require.NoError(t, b.AddAsset(ab))
	lang, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteWithOptions(&buf, lang, langspec.WithStrictSchema(true)))

	reopened, err := Read(buf.Bytes())
	require.NoError(t, err)
	host, ok := reopened.Asset("Host")
	require.True(t, ok)
	assert.Equal(t, ab.SvgIcon, host.LocalSvgIcon())
}

func TestRead_IgnoresIconWithInvalidBaseName(t *testing.T) {
	b := langspec.NewBuilder()
	require.NoError(t, b.AddDefine("id", "x"))
	require.NoError(t, b.AddDefine("version", "1"))
	cb, err := langspec.NewCategoryBuilder("C")
	require.NoError(t, err)
	require.NoError(t, b.AddCategory(cb))
	ab, err := langspec.NewAssetBuilder("A", "C")
	require.NoError(t, err)
	require.NoError(t, b.AddAsset(ab))
	lang, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, lang))

	reopened, err := Read(buf.Bytes())
	require.NoError(t, err)
	a, ok := reopened.Asset("A")
	require.True(t, ok)
	assert.Nil(t, a.LocalSvgIcon())
}
