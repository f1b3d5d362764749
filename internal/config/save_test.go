package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSavePalette_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SavePalette(path, "/home/ada/palette.yaml"))

	var out struct {
		Palette string `yaml:"palette"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, "/home/ada/palette.yaml", out.Palette)
}

func TestSavePalette_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("# my settings\ndebug: true\npalette: old.yaml\n"), 0644))

	require.NoError(t, SavePalette(path, "new.yaml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out struct {
		Debug   bool   `yaml:"debug"`
		Palette string `yaml:"palette"`
	}
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.True(t, out.Debug, "unrelated keys must survive the edit")
	assert.Equal(t, "new.yaml", out.Palette)
	assert.Contains(t, string(data), "# my settings", "comments must survive the edit")
}

func TestSaveOutputExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  preamble: true\n"), 0644))

	require.NoError(t, SaveOutputExtension(path, ".ltx"))

	var out struct {
		Output struct {
			Extension string `yaml:"extension"`
			Preamble  bool   `yaml:"preamble"`
		} `yaml:"output"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, ".ltx", out.Output.Extension)
	assert.True(t, out.Output.Preamble)
}

func TestSaveOutputExtension_RejectsMissingDot(t *testing.T) {
	require.Error(t, SaveOutputExtension(filepath.Join(t.TempDir(), "config.yaml"), "ltx"))
}

func TestSaveScalar_RejectsNonMappingRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a\n- list\n"), 0644))

	require.Error(t, SavePalette(path, "x.yaml"))
}
