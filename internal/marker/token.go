// Package marker implements the highlight marker pipeline: a lexer that
// tokenizes a marker-annotated text stream, a region builder that converts
// tokens into maximal spans tagged with the set of active highlights, and a
// generator that renders each span as nested, styled wrapper markup for a
// downstream typesetting compiler.
package marker

import "fmt"

// TokenType represents the type of lexical token.
type TokenType int

const (
	// TokenText is a run of ordinary text, passed through byte-for-byte.
	TokenText TokenType = iota

	// TokenHighlightStart opens highlight n: HLSTART{n}ENDHL
	TokenHighlightStart

	// TokenHighlightEnd closes highlight n: HLEND{n}ENDHL
	TokenHighlightEnd

	// TokenAnnotation attaches highlight n's note at this point: ANNMARKER{n}ENDMARKER
	TokenAnnotation
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenHighlightStart:
		return "HLSTART"
	case TokenHighlightEnd:
		return "HLEND"
	case TokenAnnotation:
		return "ANNMARKER"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token. Tokens are contiguous and gap-free:
// concatenating every token's Literal, in order, reconstructs the lexer
// input exactly, and token i+1's Start equals token i's End.
type Token struct {
	Type    TokenType
	Index   int    // highlight identifier; meaningful for marker tokens only
	Literal string // exact source substring, markers included
	Start   int    // byte offset of the token in the input
	End     int    // byte offset one past the token's last byte
}

// String returns a compact description for error messages and logs.
func (t Token) String() string {
	if t.Type == TokenText {
		return fmt.Sprintf("TEXT[%d:%d]", t.Start, t.End)
	}
	return fmt.Sprintf("%s(%d)[%d:%d]", t.Type, t.Index, t.Start, t.End)
}
