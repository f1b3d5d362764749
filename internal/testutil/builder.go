// Package testutil provides helpers for building marker-annotated
// documents in tests and for diffing rendered markup.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/softquill/tintex/internal/marker"
)

// DocBuilder accumulates a marker stream plus the metadata and protected
// ranges that go with it, so tests read as document descriptions instead
// of string concatenation.
type DocBuilder struct {
	t          *testing.T
	parts      []string
	meta       marker.Metadata
	boundaries []marker.ProtectedBoundary
}

// NewDoc creates a builder for one test document.
func NewDoc(t *testing.T) *DocBuilder {
	t.Helper()
	return &DocBuilder{t: t, meta: marker.Metadata{}}
}

// Text appends literal document text.
func (b *DocBuilder) Text(s string) *DocBuilder {
	b.parts = append(b.parts, s)
	return b
}

// Open appends a highlight start marker.
func (b *DocBuilder) Open(id int) *DocBuilder {
	b.parts = append(b.parts, fmt.Sprintf("HLSTART{%d}ENDHL", id))
	return b
}

// Close appends a highlight end marker.
func (b *DocBuilder) Close(id int) *DocBuilder {
	b.parts = append(b.parts, fmt.Sprintf("HLEND{%d}ENDHL", id))
	return b
}

// Note appends an annotation marker.
func (b *DocBuilder) Note(id int) *DocBuilder {
	b.parts = append(b.parts, fmt.Sprintf("ANNMARKER{%d}ENDMARKER", id))
	return b
}

// Highlighted appends text wrapped in a start/end marker pair.
func (b *DocBuilder) Highlighted(id int, text string) *DocBuilder {
	return b.Open(id).Text(text).Close(id)
}

// WithHighlight registers metadata for an identifier.
func (b *DocBuilder) WithHighlight(id int, styleTag string, opts ...HighlightOption) *DocBuilder {
	h := marker.Highlight{StyleTag: styleTag}
	for _, opt := range opts {
		opt(&h)
	}
	b.meta[id] = h
	return b
}

// Protect registers a protected range in offsets of the assembled text.
func (b *DocBuilder) Protect(start, end int) *DocBuilder {
	b.boundaries = append(b.boundaries, marker.ProtectedBoundary{Start: start, End: end})
	return b
}

// Len returns the current length of the assembled text, for computing
// protected offsets while building.
func (b *DocBuilder) Len() int {
	n := 0
	for _, p := range b.parts {
		n += len(p)
	}
	return n
}

// Build returns the assembled document.
func (b *DocBuilder) Build() (text string, meta marker.Metadata, boundaries []marker.ProtectedBoundary) {
	b.t.Helper()
	return strings.Join(b.parts, ""), b.meta, b.boundaries
}
