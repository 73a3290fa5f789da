package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style controls the editor's rendering.
type Style struct {
	Gutter        lipgloss.Style
	LineNum       lipgloss.Style
	LineNumActive lipgloss.Style

	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	// Widget is the base style for line widget content.
	Widget lipgloss.Style
}

func DefaultStyle() Style {
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Gutter:        gutter,
		LineNum:       gutter,
		LineNumActive: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		Text:          lipgloss.NewStyle(),
		Selection:     lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Widget:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// classStyle resolves a space-separated class list. The first class setting
// a property wins.
func (m *Model) classStyle(classes string) (lipgloss.Style, bool) {
	var (
		st    lipgloss.Style
		found bool
	)
	for _, name := range strings.Fields(classes) {
		cs, ok := m.cfg.ClassStyles[name]
		if !ok {
			continue
		}
		if !found {
			st = cs
			found = true
			continue
		}
		st = st.Inherit(cs)
	}
	return st, found
}
