package marker

import (
	"maps"
	"slices"
	"strings"
)

// Region is a maximal run of source text over which the active-highlight
// set does not change.
type Region struct {
	// Text is the region's content, markers stripped. May be empty when two
	// markers are adjacent.
	Text string

	// Spans are the source ranges of the text chunks making up Text, in
	// order. Annotation markers inside a region make the chunks
	// non-contiguous, so one region may carry several spans. Used by the
	// generator to intersect protected boundaries, which are given in
	// original-text offsets.
	Spans []Span

	// Active holds the highlight identifiers open over this region, sorted
	// ascending. Rendering order is always this order, never the temporal
	// order in which the start markers appeared.
	Active []int

	// Annotations lists identifiers whose annotation marker physically fell
	// within this region, in order of occurrence. Content is looked up by
	// identifier; the position only decides where the note command lands.
	Annotations []int
}

// Covers reports whether the given original-text offset falls within one of
// the region's text chunks.
func (r Region) Covers(offset int) bool {
	for _, s := range r.Spans {
		if s.Contains(offset) {
			return true
		}
	}
	return false
}

// regionAccum accumulates one region's content during the builder pass.
type regionAccum struct {
	text  strings.Builder
	spans []Span
	anns  []int
}

func (a *regionAccum) empty() bool {
	return a.text.Len() == 0 && len(a.anns) == 0
}

func (a *regionAccum) reset() {
	a.text.Reset()
	a.spans = nil
	a.anns = nil
}

// BuildRegions converts a token stream into the ordered region sequence.
// The caller guarantees balanced, non-reentrant markers per identifier;
// violations surface as *StructuralError and no region list is returned.
func BuildRegions(tokens []Token) ([]Region, error) {
	// Identifiers with a start marker anywhere in the stream. Annotation
	// markers may precede their highlight's start marker, so this is
	// collected up front.
	started := make(map[int]struct{})
	for _, tok := range tokens {
		if tok.Type == TokenHighlightStart {
			started[tok.Index] = struct{}{}
		}
	}

	var (
		regions    []Region
		acc        regionAccum
		active     = make(map[int]struct{})
		openOffset = make(map[int]int) // where each active highlight opened
	)

	flush := func() {
		regions = append(regions, Region{
			Text:        acc.text.String(),
			Spans:       acc.spans,
			Active:      slices.Sorted(maps.Keys(active)),
			Annotations: acc.anns,
		})
		acc.reset()
	}

	for _, tok := range tokens {
		switch tok.Type {
		case TokenText:
			acc.text.WriteString(tok.Literal)
			acc.spans = append(acc.spans, Span{Start: tok.Start, End: tok.End})

		case TokenHighlightStart:
			if _, ok := active[tok.Index]; ok {
				return nil, &StructuralError{Kind: ReentrantStart, ID: tok.Index, Offset: tok.Start}
			}
			// Close the current region with the active set before this
			// marker. A leading start marker with nothing accumulated and
			// nothing active produces no empty region.
			if !acc.empty() || len(active) > 0 {
				flush()
			}
			active[tok.Index] = struct{}{}
			openOffset[tok.Index] = tok.Start

		case TokenHighlightEnd:
			if _, ok := active[tok.Index]; !ok {
				return nil, &StructuralError{Kind: UnmatchedEnd, ID: tok.Index, Offset: tok.Start}
			}
			flush()
			delete(active, tok.Index)
			delete(openOffset, tok.Index)

		case TokenAnnotation:
			if _, ok := started[tok.Index]; !ok {
				return nil, &StructuralError{Kind: DanglingAnnotation, ID: tok.Index, Offset: tok.Start}
			}
			acc.anns = append(acc.anns, tok.Index)
		}
	}

	if len(active) > 0 {
		// Report the highlight that has been open the longest.
		id, offset := -1, -1
		for n, off := range openOffset {
			if offset == -1 || off < offset {
				id, offset = n, off
			}
		}
		return nil, &StructuralError{Kind: UnclosedHighlight, ID: id, Offset: offset}
	}

	// Flush trailing content. An entirely empty input still yields one
	// empty region so callers always see at least the final inactive state.
	if !acc.empty() || len(regions) == 0 {
		flush()
	}

	return regions, nil
}
