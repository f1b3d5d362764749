package marker

// Templates is the markup vocabulary the generator emits. The downstream
// typesetting compiler decides what these macros mean; the generator only
// guarantees their nesting and arity. Swapping the vocabulary is fine as
// long as each template keeps its argument count.
type Templates struct {
	// FillOpen opens a background-fill wrapper. Arguments: colour name.
	FillOpen string

	// FillClose closes the innermost open fill wrapper.
	FillClose string

	// StrokeOpen opens an underline-stroke wrapper. Arguments: colour name,
	// stroke width, vertical offset.
	StrokeOpen string

	// StrokeClose closes the innermost open stroke wrapper.
	StrokeClose string

	// Annotation emits one margin note. Arguments: author, date, note text.
	Annotation string
}

// DefaultTemplates is the LaTeX macro vocabulary tintex ships with. The
// matching macro definitions are in Preamble.
var DefaultTemplates = Templates{
	FillOpen:    `\tintfill{%s}{`,
	FillClose:   `}`,
	StrokeOpen:  `\tintstroke{%s}{%d}{%d}{`,
	StrokeClose: `}`,
	Annotation:  `\tintnote{%s}{%s}{%s}`,
}

// Stroke styling constants. Widths and the shared-stroke offset follow the
// overlap-cardinality rules: one highlight gets a single width-1 stroke, two
// get stacked width-2/width-1 strokes, three or more collapse to one shared
// width-4 stroke lifted clear of the stacked fills.
const (
	strokeWidthSingle = 1
	strokeWidthOuter  = 2
	strokeWidthInner  = 1
	strokeWidthShared = 4

	strokeOffsetDefault = -3
	strokeOffsetShared  = -5
)

// DefaultSharedStrokeColor is the fixed colour used for the collapsed stroke
// when three or more highlights overlap. Deliberately not any individual
// style tag's colour.
const DefaultSharedStrokeColor = "tintsharedgray"

// Preamble returns the static macro definitions the default vocabulary
// expects. Export workflows prepend this (once) to the typeset document so
// the produced markup compiles.
func Preamble() string {
	return `% tintex highlight macros
\usepackage{xcolor}
\usepackage{soulpos}
\newcommand{\tintfill}[2]{\begingroup\sethlcolor{#1}\hl{#2}\endgroup}
\ulposdef{\tintrule}[xoffset=.15ex]{%
  \makebox[0pt][l]{\color{\tintrulecolor}%
    \rule[\dimexpr\tintruleshift ex]{\ulwidth}{\dimexpr\tintrulewidth pt}}}
\newcommand{\tintstroke}[4]{%
  \def\tintrulecolor{#1}%
  \def\tintrulewidth{#2}%
  \def\tintruleshift{#3}%
  \tintrule{#4}}
\newcommand{\tintnote}[3]{\marginpar{\footnotesize\textbf{#1} (#2): #3}}
`
}
