package marker

import (
	"strconv"
	"strings"
)

// Marker grammar literals. Fixed contract with the upstream producer; a
// change on either side breaks the stream format.
const (
	highlightStartOpen = "HLSTART{"
	highlightEndOpen   = "HLEND{"
	annotationOpen     = "ANNMARKER{"
	highlightClose     = "}ENDHL"
	annotationClose    = "}ENDMARKER"
)

// Lexer tokenizes a marker-annotated text stream.
type Lexer struct {
	input string
	pos   int // current position in input
}

// NewLexer creates a new lexer for the input string.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the entire input and returns the gap-free token sequence.
// It cannot fail: input with no complete marker anywhere is a single text
// token, and semantic problems (unbalanced markers) are the region
// builder's to detect.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token from the input. The second return value is
// false once the input is exhausted.
func (l *Lexer) Next() (Token, bool) {
	if l.pos >= len(l.input) {
		return Token{}, false
	}

	if tok, ok := l.matchMarker(l.pos); ok {
		l.pos = tok.End
		return tok, true
	}

	// Ordinary text, consumed greedily up to (but not including) the next
	// position where a marker pattern matches in full. A prefix that merely
	// resembles a marker extends the text run; there is no backtracking.
	start := l.pos
	i := l.pos + 1
	for i < len(l.input) {
		if _, ok := l.matchMarker(i); ok {
			break
		}
		i++
	}
	l.pos = i
	return Token{Type: TokenText, Literal: l.input[start:i], Start: start, End: i}, true
}

// markerForm pairs a marker's open/close literals with its token type.
type markerForm struct {
	open  string
	close string
	typ   TokenType
}

var markerForms = [...]markerForm{
	{highlightStartOpen, highlightClose, TokenHighlightStart},
	{highlightEndOpen, highlightClose, TokenHighlightEnd},
	{annotationOpen, annotationClose, TokenAnnotation},
}

// matchMarker reports whether one of the three marker forms matches in full
// at pos, and returns the marker token if so.
func (l *Lexer) matchMarker(pos int) (Token, bool) {
	// Every marker starts with 'H' or 'A'; bail early for everything else.
	switch l.input[pos] {
	case 'H', 'A':
	default:
		return Token{}, false
	}

	rest := l.input[pos:]
	for _, form := range markerForms {
		if !strings.HasPrefix(rest, form.open) {
			continue
		}
		j := len(form.open)
		for j < len(rest) && isDigit(rest[j]) {
			j++
		}
		if j == len(form.open) || !strings.HasPrefix(rest[j:], form.close) {
			continue
		}
		index, err := strconv.Atoi(rest[len(form.open):j])
		if err != nil {
			// Identifier does not fit an int; not a marker we can represent.
			continue
		}
		end := pos + j + len(form.close)
		return Token{
			Type:    form.typ,
			Index:   index,
			Literal: l.input[pos:end],
			Start:   pos,
			End:     end,
		}, true
	}
	return Token{}, false
}

// isDigit returns true if c is a decimal digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
