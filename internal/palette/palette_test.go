package palette

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_KnownTags(t *testing.T) {
	p := Default()

	pair, known := p.Lookup("yellow")
	assert.True(t, known)
	assert.Equal(t, "tintyellowlight", pair.Light)
	assert.Equal(t, "tintyellowdark", pair.Dark)
}

func TestDefault_UnknownTagFallsBack(t *testing.T) {
	p := Default()

	pair, known := p.Lookup("chartreuse-dreams")
	assert.False(t, known)
	assert.Equal(t, fallbackPair, pair)
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	content := `colors:
  yellow: {light: lemonchiffon, dark: goldenrod}
  sepia: {light: wheat, dark: saddlebrown}
fallback: {light: gainsboro, dark: dimgray}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)

	pair, known := p.Lookup("yellow")
	assert.True(t, known)
	assert.Equal(t, "lemonchiffon", pair.Light)

	pair, known = p.Lookup("sepia")
	assert.True(t, known)
	assert.Equal(t, "saddlebrown", pair.Dark)

	// Untouched defaults survive the overlay.
	pair, known = p.Lookup("green")
	assert.True(t, known)
	assert.Equal(t, "tintgreenlight", pair.Light)

	// Custom fallback applies to unknown tags.
	pair, known = p.Lookup("nope")
	assert.False(t, known)
	assert.Equal(t, "gainsboro", pair.Light)
}

func TestLoadFile_RejectsIncompletePair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors:\n  broken: {light: onlylight}\n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestResolver_UsesPalettePairs(t *testing.T) {
	r := Default().Resolver()
	light, dark := r.Resolve("blue")
	assert.Equal(t, "tintbluelight", light)
	assert.Equal(t, "tintbluedark", dark)
}
