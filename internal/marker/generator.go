package marker

import (
	"fmt"
	"sort"
	"strings"
)

// StyleResolver resolves a highlight's style tag to the pair of colour
// names used for its fill (light) and stroke (dark) layers. Colour
// resolution is an opaque caller concern; the generator never computes
// colours itself.
type StyleResolver interface {
	Resolve(tag string) (light, dark string)
}

// StyleResolverFunc adapts a plain function to the StyleResolver interface.
type StyleResolverFunc func(tag string) (light, dark string)

func (f StyleResolverFunc) Resolve(tag string) (light, dark string) {
	return f(tag)
}

// defaultResolver derives colour names mechanically from the tag. Real
// callers supply a palette; this keeps the zero-configuration generator
// usable in tests and tooling.
var defaultResolver = StyleResolverFunc(func(tag string) (string, string) {
	return tag + "light", tag + "dark"
})

// Generator renders regions as nested wrapper markup. It holds no state
// across Render calls; everything transient lives on the stack of one call.
type Generator struct {
	templates   Templates
	resolver    StyleResolver
	sharedColor string
	dateLayout  string
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemplates replaces the markup vocabulary.
func WithTemplates(t Templates) Option {
	return func(g *Generator) { g.templates = t }
}

// WithStyleResolver replaces the style-tag colour lookup.
func WithStyleResolver(r StyleResolver) Option {
	return func(g *Generator) { g.resolver = r }
}

// WithSharedStrokeColor replaces the fixed colour of the collapsed stroke
// used when three or more highlights overlap.
func WithSharedStrokeColor(c string) Option {
	return func(g *Generator) { g.sharedColor = c }
}

// NewGenerator creates a generator with the default LaTeX vocabulary.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		templates:   DefaultTemplates,
		resolver:    defaultResolver,
		sharedColor: DefaultSharedStrokeColor,
		dateLayout:  "2006-01-02",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// wrapper is one open/close pair of the per-region wrapper stack.
type wrapper struct {
	open  string
	close string
}

// Render emits the final markup for the region sequence. Boundaries are the
// protected ranges, in original-text offsets, that wrapper markup must not
// interrupt. Fails with *MetadataLookupError when a region references an
// identifier missing from meta.
func (g *Generator) Render(regions []Region, meta Metadata, boundaries []ProtectedBoundary) (string, error) {
	sorted := make([]ProtectedBoundary, len(boundaries))
	copy(sorted, boundaries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out strings.Builder
	for _, region := range regions {
		if err := g.checkMetadata(region, meta); err != nil {
			return "", err
		}
		if region.Text == "" && len(region.Annotations) == 0 {
			// Nothing to wrap and nothing to note. Regions like this occur
			// between adjacent markers.
			continue
		}

		if len(region.Active) == 0 {
			out.WriteString(region.Text)
		} else {
			stack := g.wrapperStack(region.Active, meta)
			for _, seg := range splitProtected(region, sorted) {
				if seg.text == "" {
					continue
				}
				if seg.protected {
					out.WriteString(seg.text)
					continue
				}
				for _, w := range stack {
					out.WriteString(w.open)
				}
				out.WriteString(seg.text)
				for i := len(stack) - 1; i >= 0; i-- {
					out.WriteString(stack[i].close)
				}
			}
		}

		for _, id := range region.Annotations {
			h := meta[id]
			if !h.HasNote() {
				continue
			}
			fmt.Fprintf(&out, g.templates.Annotation, h.Author, h.CreatedAt.Format(g.dateLayout), h.Note)
		}
	}
	return out.String(), nil
}

// checkMetadata verifies every identifier the region references has a
// metadata entry.
func (g *Generator) checkMetadata(region Region, meta Metadata) error {
	for _, id := range region.Active {
		if _, ok := meta[id]; !ok {
			return &MetadataLookupError{ID: id}
		}
	}
	for _, id := range region.Annotations {
		if _, ok := meta[id]; !ok {
			return &MetadataLookupError{ID: id}
		}
	}
	return nil
}

// wrapperStack derives the outermost-first wrapper sequence for an active
// set. Fill wrappers nest ascending by identifier for every cardinality;
// the stroke layer depends on how many highlights overlap. Identifiers in
// active are already sorted ascending.
func (g *Generator) wrapperStack(active []int, meta Metadata) []wrapper {
	stack := make([]wrapper, 0, len(active)+2)

	for _, id := range active {
		light, _ := g.resolver.Resolve(meta[id].StyleTag)
		stack = append(stack, wrapper{
			open:  fmt.Sprintf(g.templates.FillOpen, light),
			close: g.templates.FillClose,
		})
	}

	stroke := func(colour string, width, offset int) wrapper {
		return wrapper{
			open:  fmt.Sprintf(g.templates.StrokeOpen, colour, width, offset),
			close: g.templates.StrokeClose,
		}
	}

	switch {
	case len(active) == 1:
		_, dark := g.resolver.Resolve(meta[active[0]].StyleTag)
		stack = append(stack, stroke(dark, strokeWidthSingle, strokeOffsetDefault))
	case len(active) == 2:
		// Outer stroke first in markup order so the inner one paints on top.
		_, outer := g.resolver.Resolve(meta[active[0]].StyleTag)
		_, inner := g.resolver.Resolve(meta[active[1]].StyleTag)
		stack = append(stack,
			stroke(outer, strokeWidthOuter, strokeOffsetDefault),
			stroke(inner, strokeWidthInner, strokeOffsetDefault))
	default:
		// Three or more overlapping strokes are illegible individually;
		// collapse to the single shared stroke regardless of which
		// identifiers are involved.
		stack = append(stack, stroke(g.sharedColor, strokeWidthShared, strokeOffsetShared))
	}
	return stack
}

// segment is a piece of one region's text, flagged when it falls inside a
// protected boundary and must therefore be emitted unwrapped.
type segment struct {
	text      string
	protected bool
}

// splitProtected cuts a region's text chunks at protected-boundary edges.
// The region's active set and extent are untouched; only wrapper placement
// changes. Boundaries must be sorted by start offset and non-overlapping.
func splitProtected(region Region, boundaries []ProtectedBoundary) []segment {
	if len(boundaries) == 0 {
		return []segment{{text: region.Text}}
	}

	var segs []segment
	textOffset := 0
	for _, chunk := range region.Spans {
		chunkText := region.Text[textOffset : textOffset+chunk.Len()]
		textOffset += chunk.Len()

		pos := chunk.Start
		for _, b := range boundaries {
			if b.Start >= chunk.End {
				break
			}
			if !b.Overlaps(chunk) {
				continue
			}
			cut := max(b.Start, chunk.Start)
			if cut > pos {
				segs = append(segs, segment{text: chunkText[pos-chunk.Start : cut-chunk.Start]})
			}
			end := min(b.End, chunk.End)
			segs = append(segs, segment{text: chunkText[cut-chunk.Start : end-chunk.Start], protected: true})
			pos = end
		}
		if pos < chunk.End {
			segs = append(segs, segment{text: chunkText[pos-chunk.Start:]})
		}
	}
	return segs
}
