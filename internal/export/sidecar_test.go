package export_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softquill/tintex/internal/export"
	"github.com/softquill/tintex/internal/marker"
)

func loadSidecarString(t *testing.T, content string) (export.Sidecar, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chapter.highlights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return export.LoadSidecar(path)
}

func TestLoadSidecar(t *testing.T) {
	sc, err := loadSidecarString(t, `
highlights:
  - id: 2
    style: green
  - id: 1
    style: yellow
    note: check this claim
    author: ada
    created: 2026-03-14T09:30:00Z
protected:
  - start: 120
    end: 168
  - start: 10
    end: 20
`)
	require.NoError(t, err)

	meta := sc.Metadata()
	require.Len(t, meta, 2)
	assert.Equal(t, "yellow", meta[1].StyleTag)
	assert.Equal(t, "check this claim", meta[1].Note)
	assert.Equal(t, "ada", meta[1].Author)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), meta[1].CreatedAt)
	assert.Equal(t, "green", meta[2].StyleTag)
	assert.False(t, meta[2].HasNote())

	// Boundaries come out sorted by start regardless of file order.
	bs := sc.Boundaries()
	require.Len(t, bs, 2)
	assert.Equal(t, marker.ProtectedBoundary{Start: 10, End: 20}, bs[0])
	assert.Equal(t, marker.ProtectedBoundary{Start: 120, End: 168}, bs[1])
}

func TestLoadSidecar_MissingFile(t *testing.T) {
	_, err := export.LoadSidecar(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading sidecar")
}

func TestLoadSidecar_MalformedYAML(t *testing.T) {
	_, err := loadSidecarString(t, "highlights: [unclosed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing sidecar")
}

func TestSidecarValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "duplicate id",
			content: `
highlights:
  - id: 1
    style: yellow
  - id: 1
    style: green
`,
			wantErr: "duplicate highlight id 1",
		},
		{
			name: "negative id",
			content: `
highlights:
  - id: -4
    style: yellow
`,
			wantErr: "negative",
		},
		{
			name: "missing style",
			content: `
highlights:
  - id: 3
`,
			wantErr: "no style tag",
		},
		{
			name: "inverted range",
			content: `
protected:
  - start: 50
    end: 50
`,
			wantErr: "empty or inverted",
		},
		{
			name: "overlapping ranges",
			content: `
protected:
  - start: 10
    end: 30
  - start: 20
    end: 40
`,
			wantErr: "overlap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSidecarString(t, tt.content)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "/docs/chapter.highlights.yaml", export.SidecarPath("/docs/chapter.mkd"))
	assert.Equal(t, "/docs/chapter.highlights.yaml", export.SidecarPath("/docs/chapter"))
}

func TestSidecar_EmptyFileIsValid(t *testing.T) {
	sc, err := loadSidecarString(t, "")
	require.NoError(t, err)
	assert.Empty(t, sc.Metadata())
	assert.Empty(t, sc.Boundaries())
}
