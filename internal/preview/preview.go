// Package preview renders marker-annotated text as coloured terminal
// output, so highlight placement can be checked without running the
// typesetter. The wrapper markup never appears here; regions are painted
// directly with ANSI backgrounds.
package preview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/softquill/tintex/internal/marker"
)

const defaultWidth = 80

// Renderer paints regions with terminal colours.
type Renderer struct {
	width      int
	dateLayout string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the wrap width for the document body. Zero disables
// wrapping.
func WithWidth(w int) Option {
	return func(r *Renderer) { r.width = w }
}

// NewRenderer creates a renderer wrapping at 80 columns.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		width:      defaultWidth,
		dateLayout: "2006-01-02",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render tokenizes the text, builds regions, and paints them. Unlike the
// markup generator, missing metadata is not an error here: a highlight
// without an entry still gets its identifier colour, it just has no note
// to show. Structural marker errors are still reported.
func (r *Renderer) Render(text string, meta marker.Metadata) (string, error) {
	regions, err := marker.BuildRegions(marker.Tokenize(text))
	if err != nil {
		return "", fmt.Errorf("building regions: %w", err)
	}

	var body strings.Builder
	noted := make(map[int]struct{})
	for _, region := range regions {
		body.WriteString(r.paint(region))
		for _, id := range region.Annotations {
			body.WriteString(NoteRefStyle.Render(fmt.Sprintf("[%d]", id)))
			noted[id] = struct{}{}
		}
	}

	out := body.String()
	if r.width > 0 {
		out = wordwrap.String(out, r.width)
	}

	if notes := r.notes(noted, meta); notes != "" {
		out += "\n\n" + notes
	}
	return out, nil
}

// paint colours one region's text by its active set.
func (r *Renderer) paint(region marker.Region) string {
	if region.Text == "" || len(region.Active) == 0 {
		return region.Text
	}

	style := lipgloss.NewStyle().Background(backgroundFor(region.Active[0]))
	if len(region.Active) > 1 {
		style = OverlapStyle.Background(backgroundFor(region.Active[0]))
	}
	return style.Render(region.Text)
}

// notes renders the annotation lines for every referenced identifier that
// has a note, ordered by identifier.
func (r *Renderer) notes(noted map[int]struct{}, meta marker.Metadata) string {
	ids := make([]int, 0, len(noted))
	for id := range noted {
		if meta[id].HasNote() {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	var lines []string
	for _, id := range ids {
		h := meta[id]
		line := fmt.Sprintf("[%d] %s", id, h.Note)
		if h.Author != "" {
			line = fmt.Sprintf("[%d] %s, %s: %s", id, h.Author, h.CreatedAt.Format(r.dateLayout), h.Note)
		}
		lines = append(lines, NoteStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}
