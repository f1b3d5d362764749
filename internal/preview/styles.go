package preview

import "github.com/charmbracelet/lipgloss"

// Terminal stand-ins for the typeset output. Highlight identifiers cycle
// through the background palette, so colours are stable across renders of
// the same document even when the style tags change.
var (
	highlightBackgrounds = []lipgloss.Color{
		lipgloss.Color("227"), // yellow
		lipgloss.Color("120"), // green
		lipgloss.Color("117"), // blue
		lipgloss.Color("218"), // pink
		lipgloss.Color("216"), // orange
		lipgloss.Color("183"), // violet
	}

	// OverlapStyle marks text inside two or more highlights. Stacked
	// strokes have no terminal equivalent, so overlap gets the lowest
	// identifier's background plus an underline.
	OverlapStyle = lipgloss.NewStyle().
			Underline(true)

	// NoteRefStyle for the inline [n] annotation references.
	NoteRefStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)

	// NoteStyle for the annotation lines below the document body.
	NoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// backgroundFor returns the stable background colour for a highlight
// identifier.
func backgroundFor(id int) lipgloss.Color {
	if id < 0 {
		id = -id
	}
	return highlightBackgrounds[id%len(highlightBackgrounds)]
}
