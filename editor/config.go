package editor

import "github.com/charmbracelet/lipgloss"

// Config configures the editor Model.
type Config struct {
	// Initial text for the internal buffer.
	Text string

	// Rendering options.
	ShowLineNums bool
	Style        Style

	// ClassStyles maps class names used by line classes and markers
	// (ClassName, StartStyle, EndStyle) to styles. Unknown names render
	// unstyled.
	ClassStyles map[string]lipgloss.Style

	// DocID identifies the document for hosts persisting editor state.
	DocID string

	// KeyMap drives key handling in Update. The zero value means
	// DefaultKeyMap.
	KeyMap KeyMap

	// ReadOnly refuses every key edit; movement and selection still work.
	ReadOnly bool

	// Forwarded to buffer.Options.
	HistoryLimit int
}
