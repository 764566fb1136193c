package langspec

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildWithOptions_LogsPhaseBoundaries confirms a supplied Logger
// observes the resolver's phase-boundary debug events.
func TestBuildWithOptions_LogsPhaseBoundaries(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := newTestBuilder(t)
	require.NoError(t, b.AddCategory(mustCategory(t, "C")))
	require.NoError(t, b.AddAsset(mustAsset(t, "A", "C")))

	_, err := b.BuildWithOptions(WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "phase1.complete")
	assert.Contains(t, out, "phase2.complete")
	assert.Contains(t, out, "phase2.asset")
}

// TestBuild_EquivalentToBuildWithOptionsNoOpts confirms the two entry
// points produce the same result when no options are supplied.
func TestBuild_EquivalentToBuildWithOptionsNoOpts(t *testing.T) {
	b1 := newTestBuilder(t)
	require.NoError(t, b1.AddCategory(mustCategory(t, "C")))
	require.NoError(t, b1.AddAsset(mustAsset(t, "A", "C")))
	lang1, err := b1.Build()
	require.NoError(t, err)

	b2 := newTestBuilder(t)
	require.NoError(t, b2.AddCategory(mustCategory(t, "C")))
	require.NoError(t, b2.AddAsset(mustAsset(t, "A", "C")))
	lang2, err := b2.BuildWithOptions()
	require.NoError(t, err)

	_, ok1 := lang1.Asset("A")
	_, ok2 := lang2.Asset("A")
	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestWithMaxIcons_IgnoresNonPositive(t *testing.T) {
	o := ApplyOptions(WithMaxIcons(0), WithMaxIcons(-1))
	assert.Equal(t, 0, o.MaxIcons)

	o = ApplyOptions(WithMaxIcons(3))
	assert.Equal(t, 3, o.MaxIcons)
}

func TestWithLogger_IgnoresNil(t *testing.T) {
	o := ApplyOptions(WithLogger(nil))
	assert.NotNil(t, o.Logger)
}

// TestLoadOptions reads a YAML options file back into an Options value.
func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")
	contents := "strictSchema: true\nmaxIcons: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	o, err := LoadOptions(path)
	require.NoError(t, err)
	assert.True(t, o.StrictSchema)
	assert.Equal(t, 5, o.MaxIcons)
	assert.NotNil(t, o.Logger)
}

func TestLoadOptions_MissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no such file") || os.IsNotExist(err))
}
