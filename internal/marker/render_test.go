package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkers_EndToEnd(t *testing.T) {
	input := "The " + hlStart(1) + "quick " + hlStart(2) + "fox" + hlEnd(2) + " brown" + hlEnd(1) + " dog"
	out, err := RenderMarkers(input, testMeta, nil)
	require.NoError(t, err)

	assert.True(t, len(out) > len("The quick fox brown dog"))
	assert.Contains(t, out, "The ")
	assert.Contains(t, out, " dog")
	assert.Contains(t, out, `\tintfill{yellowlight}{`)
	assert.Contains(t, out, `\tintfill{greenlight}{`)
}

func TestRenderMarkers_StructuralErrorCarriesContext(t *testing.T) {
	_, err := RenderMarkers("x"+hlEnd(5), testMeta, nil)
	require.Error(t, err)

	var serr *StructuralError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 5, serr.ID)
	assert.Equal(t, UnmatchedEnd, serr.Kind)
	assert.Contains(t, err.Error(), "building regions")
}

func TestRenderMarkers_MetadataErrorCarriesContext(t *testing.T) {
	_, err := RenderMarkers(hlStart(9)+"x"+hlEnd(9), Metadata{}, nil)
	require.Error(t, err)

	var merr *MetadataLookupError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 9, merr.ID)
	assert.Contains(t, err.Error(), "rendering regions")
}

func TestRenderMarkers_EmptyInput(t *testing.T) {
	out, err := RenderMarkers("", Metadata{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
