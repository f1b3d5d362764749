package export_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softquill/tintex/internal/export"
	"github.com/softquill/tintex/internal/marker"
	"github.com/softquill/tintex/internal/pubsub"
	"github.com/softquill/tintex/internal/testutil"
)

func hlStart(id int) string { return fmt.Sprintf("HLSTART{%d}ENDHL", id) }
func hlEnd(id int) string   { return fmt.Sprintf("HLEND{%d}ENDHL", id) }

func singleWrap(light, dark, text string) string {
	return `\tintfill{` + light + `}{` +
		fmt.Sprintf(`\tintstroke{%s}{1}{-3}{`, dark) +
		text + `}}`
}

func TestService_RenderSingleHighlight(t *testing.T) {
	svc := export.NewService()
	sc := export.Sidecar{
		Highlights: []export.HighlightEntry{{ID: 1, Style: "yellow"}},
	}

	out, err := svc.Render(context.Background(),
		"plain "+hlStart(1)+"marked"+hlEnd(1)+" tail", sc)
	require.NoError(t, err)

	assert.Equal(t, "plain "+singleWrap("yellowlight", "yellowdark", "marked")+" tail", out)
}

func TestService_RenderUsesResolver(t *testing.T) {
	resolver := marker.StyleResolverFunc(func(tag string) (string, string) {
		return "custom-" + tag, "custom-" + tag + "-dark"
	})
	svc := export.NewService(export.WithResolver(resolver))
	sc := export.Sidecar{
		Highlights: []export.HighlightEntry{{ID: 3, Style: "green"}},
	}

	out, err := svc.Render(context.Background(), hlStart(3)+"x"+hlEnd(3), sc)
	require.NoError(t, err)

	assert.Contains(t, out, `\tintfill{custom-green}{`)
	assert.Contains(t, out, `\tintstroke{custom-green-dark}{1}{-3}{`)
}

func TestService_RenderStructuralError(t *testing.T) {
	svc := export.NewService()
	sc := export.Sidecar{
		Highlights: []export.HighlightEntry{{ID: 1, Style: "yellow"}},
	}

	_, err := svc.Render(context.Background(), hlStart(1)+"never closed", sc)
	require.Error(t, err)

	var serr *marker.StructuralError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, marker.UnclosedHighlight, serr.Kind)
}

func TestService_RenderMissingMetadata(t *testing.T) {
	svc := export.NewService()

	_, err := svc.Render(context.Background(), hlStart(7)+"x"+hlEnd(7), export.Sidecar{})
	require.Error(t, err)

	var merr *marker.MetadataLookupError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, 7, merr.ID)
}

func TestService_RenderCachesByDigest(t *testing.T) {
	var calls atomic.Int64
	resolver := marker.StyleResolverFunc(func(tag string) (string, string) {
		calls.Add(1)
		return tag + "light", tag + "dark"
	})
	svc := export.NewService(export.WithResolver(resolver))
	sc := export.Sidecar{
		Highlights: []export.HighlightEntry{{ID: 1, Style: "yellow"}},
	}
	text := hlStart(1) + "body" + hlEnd(1)

	first, err := svc.Render(context.Background(), text, sc)
	require.NoError(t, err)
	resolvesAfterFirst := calls.Load()
	require.Positive(t, resolvesAfterFirst)

	second, err := svc.Render(context.Background(), text, sc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, resolvesAfterFirst, calls.Load(), "second render should come from cache")

	// A sidecar change invalidates the digest and renders again.
	sc.Highlights[0].Style = "green"
	_, err = svc.Render(context.Background(), text, sc)
	require.NoError(t, err)
	assert.Greater(t, calls.Load(), resolvesAfterFirst)
}

func TestService_SkipCacheRendersEveryTime(t *testing.T) {
	var calls atomic.Int64
	resolver := marker.StyleResolverFunc(func(tag string) (string, string) {
		calls.Add(1)
		return tag + "light", tag + "dark"
	})
	svc := export.NewService(export.WithResolver(resolver), export.WithSkipCache(true))
	sc := export.Sidecar{
		Highlights: []export.HighlightEntry{{ID: 1, Style: "yellow"}},
	}
	text := hlStart(1) + "body" + hlEnd(1)

	_, err := svc.Render(context.Background(), text, sc)
	require.NoError(t, err)
	afterFirst := calls.Load()

	_, err = svc.Render(context.Background(), text, sc)
	require.NoError(t, err)
	assert.Greater(t, calls.Load(), afterFirst)
}

func TestService_RenderProtectedRange(t *testing.T) {
	b := testutil.NewDoc(t).Open(1)
	protStart := b.Len()
	b.Text(`\ref{sec}`)
	protEnd := b.Len()
	text, _, _ := b.Text("tail").Close(1).Build()

	svc := export.NewService()
	sc := export.Sidecar{
		Highlights: []export.HighlightEntry{{ID: 1, Style: "yellow"}},
		Protected:  []export.ProtectedEntry{{Start: protStart, End: protEnd}},
	}

	out, err := svc.Render(context.Background(), text, sc)
	require.NoError(t, err)

	testutil.AssertMarkupEqual(t,
		`\ref{sec}`+singleWrap("yellowlight", "yellowdark", "tail"), out)
	assert.NotContains(t, out, `{\ref`, "protected text must not be wrapped")
}

func writeFixture(t *testing.T, dir, doc, sidecar string) (docPath, sidecarPath string) {
	t.Helper()
	docPath = filepath.Join(dir, "chapter.mkd")
	sidecarPath = filepath.Join(dir, "chapter.highlights.yaml")
	require.NoError(t, os.WriteFile(docPath, []byte(doc), 0644))
	require.NoError(t, os.WriteFile(sidecarPath, []byte(sidecar), 0644))
	return docPath, sidecarPath
}

func TestService_RenderFile(t *testing.T) {
	docPath, sidecarPath := writeFixture(t, t.TempDir(),
		hlStart(1)+"from disk"+hlEnd(1),
		"highlights:\n  - id: 1\n    style: pink\n")

	svc := export.NewService()
	out, err := svc.RenderFile(context.Background(), docPath, sidecarPath)
	require.NoError(t, err)

	assert.Equal(t, singleWrap("pinklight", "pinkdark", "from disk"), out)
}

func TestService_RenderFile_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	sidecarPath := filepath.Join(dir, "chapter.highlights.yaml")
	require.NoError(t, os.WriteFile(sidecarPath, []byte("highlights: []"), 0644))

	svc := export.NewService()
	_, err := svc.RenderFile(context.Background(), filepath.Join(dir, "nope.mkd"), sidecarPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading document")
}

func TestService_ExportWritesFileAndPublishes(t *testing.T) {
	dir := t.TempDir()
	docPath, sidecarPath := writeFixture(t, dir,
		"before "+hlStart(2)+"mid"+hlEnd(2),
		"highlights:\n  - id: 2\n    style: blue\n")
	outPath := filepath.Join(dir, "chapter.tex")

	svc := export.NewService()
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Subscribe(ctx)

	require.NoError(t, svc.Export(ctx, docPath, sidecarPath, outPath))

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "before "+singleWrap("bluelight", "bluedark", "mid"), string(written))

	var types []pubsub.EventType
	for len(types) < 2 {
		select {
		case ev := <-events:
			types = append(types, ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for events, got %v", types)
		}
	}
	assert.Equal(t, []pubsub.EventType{pubsub.RenderStarted, pubsub.RenderCompleted}, types)
}

func TestService_ExportFailurePublishes(t *testing.T) {
	dir := t.TempDir()
	docPath, sidecarPath := writeFixture(t, dir,
		hlEnd(9)+"no start",
		"highlights:\n  - id: 9\n    style: blue\n")

	svc := export.NewService()
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Subscribe(ctx)

	err := svc.Export(ctx, docPath, sidecarPath, filepath.Join(dir, "out.tex"))
	require.Error(t, err)

	var sawFailed bool
	deadline := time.After(time.Second)
	for !sawFailed {
		select {
		case ev := <-events:
			if ev.Type == pubsub.RenderFailed {
				sawFailed = true
				require.Error(t, ev.Payload.Err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for render_failed event")
		}
	}
}

func TestService_WatchRerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	docPath, sidecarPath := writeFixture(t, dir,
		hlStart(1)+"v1"+hlEnd(1),
		"highlights:\n  - id: 1\n    style: yellow\n")
	outPath := filepath.Join(dir, "out.tex")

	svc := export.NewService()
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Subscribe(ctx)

	watchDone := make(chan error, 1)
	go func() {
		watchDone <- svc.Watch(ctx, docPath, sidecarPath, outPath, 50*time.Millisecond)
	}()

	waitCompleted := func() {
		t.Helper()
		deadline := time.After(3 * time.Second)
		for {
			select {
			case ev := <-events:
				if ev.Type == pubsub.RenderCompleted {
					return
				}
			case <-deadline:
				t.Fatal("timed out waiting for render_completed")
			}
		}
	}

	waitCompleted() // initial render

	require.NoError(t, os.WriteFile(docPath, []byte(hlStart(1)+"v2"+hlEnd(1)), 0644))
	waitCompleted()

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, singleWrap("yellowlight", "yellowdark", "v2"), string(written))

	cancel()
	select {
	case err := <-watchDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watch loop did not stop on cancel")
	}
}
