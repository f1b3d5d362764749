package marker

import "fmt"

// StructuralKind classifies producer contract violations found while
// building regions.
type StructuralKind int

const (
	// UnmatchedEnd is a HighlightEnd whose identifier is not active.
	UnmatchedEnd StructuralKind = iota

	// ReentrantStart is a HighlightStart for an already-active identifier.
	ReentrantStart

	// UnclosedHighlight is a HighlightStart with no HighlightEnd before the
	// stream ends.
	UnclosedHighlight

	// DanglingAnnotation is an annotation marker whose identifier has no
	// start marker anywhere in the stream.
	DanglingAnnotation
)

func (k StructuralKind) String() string {
	switch k {
	case UnmatchedEnd:
		return "unmatched HLEND"
	case ReentrantStart:
		return "reentrant HLSTART"
	case UnclosedHighlight:
		return "unclosed highlight"
	case DanglingAnnotation:
		return "dangling ANNMARKER"
	default:
		return "unknown"
	}
}

// StructuralError reports a violated marker balance invariant. The stream
// producer guarantees balanced, non-reentrant markers, so this always means
// an upstream bug; the pipeline fails closed rather than guessing.
type StructuralError struct {
	Kind   StructuralKind
	ID     int // offending highlight identifier
	Offset int // byte offset of the offending marker in the input
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s for highlight %d at offset %d", e.Kind, e.ID, e.Offset)
}

// MetadataLookupError reports a region referencing a highlight identifier
// absent from the caller-supplied metadata map.
type MetadataLookupError struct {
	ID int
}

func (e *MetadataLookupError) Error() string {
	return fmt.Sprintf("no metadata for highlight %d", e.ID)
}

// LexError is reserved for future, stricter marker grammars. The current
// grammar cannot fail: any input that never completes a marker pattern is
// ordinary text.
type LexError struct {
	Offset int
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Offset, e.Msg)
}
