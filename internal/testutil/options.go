package testutil

import (
	"time"

	"github.com/softquill/tintex/internal/marker"
)

// HighlightOption configures highlight metadata in the builder.
type HighlightOption func(*marker.Highlight)

// WithNote attaches a reviewer note.
func WithNote(note string) HighlightOption {
	return func(h *marker.Highlight) { h.Note = note }
}

// WithAuthor sets the note author.
func WithAuthor(author string) HighlightOption {
	return func(h *marker.Highlight) { h.Author = author }
}

// WithCreatedAt sets the note timestamp.
func WithCreatedAt(at time.Time) HighlightOption {
	return func(h *marker.Highlight) { h.CreatedAt = at }
}
