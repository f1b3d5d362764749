package marker

import "time"

// Highlight is the caller-supplied metadata for one highlight identifier.
// It is read-only for the duration of a render call; the pipeline never
// retains references into it.
type Highlight struct {
	// StyleTag drives colour lookup through the StyleResolver.
	StyleTag string

	// Note is the annotation text attached to the highlight. Empty means
	// the highlight has no note; annotation markers for it emit nothing.
	Note string

	Author    string
	CreatedAt time.Time
}

// HasNote reports whether the highlight carries an annotation.
func (h Highlight) HasNote() bool {
	return h.Note != ""
}

// Metadata maps highlight identifiers to their metadata. Every identifier
// appearing in the input stream must have an entry.
type Metadata map[int]Highlight

// Span is a half-open byte range [Start, End) in the original input text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// ProtectedBoundary is a range of the original text that must appear in the
// output as an unbroken, unwrapped unit: no wrapper open or close command
// may fall strictly inside it. Boundaries are caller-supplied,
// non-overlapping, and sorted by start offset.
type ProtectedBoundary = Span
