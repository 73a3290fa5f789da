package editor

import "errors"

var (
	// ErrInvalidRange is returned when a marker range does not address the
	// current document or is inverted.
	ErrInvalidRange = errors.New("editor: invalid range")
	// ErrInvalidLine is returned for line indices outside the document.
	ErrInvalidLine = errors.New("editor: invalid line")
	// ErrNilNode is returned when a line widget has no content node.
	ErrNilNode = errors.New("editor: nil widget node")
)
