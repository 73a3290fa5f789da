package editor

import (
	"fmt"
	"slices"
	"strings"
)

// ClassTarget selects which part of a line a class applies to.
type ClassTarget int

const (
	ClassText ClassTarget = iota
	ClassBackground
	ClassGutter

	classTargetCount
)

// AddLineClass adds class to the class list of row's target. Adding a class
// already present is a no-op.
func (m Model) AddLineClass(row int, where ClassTarget, class string) error {
	ld, err := m.lineDecor(row, where)
	if err != nil {
		return err
	}
	next := addClass(ld.classes[where], class)
	if next == ld.classes[where] {
		return nil
	}
	ld.classes[where] = next
	m.decor.touch()
	return nil
}

// RemoveLineClass removes class from row's target. An empty class removes
// every class of that target.
func (m Model) RemoveLineClass(row int, where ClassTarget, class string) error {
	ld, err := m.lineDecor(row, where)
	if err != nil {
		return err
	}
	next := removeClass(ld.classes[where], class)
	if next == ld.classes[where] {
		return nil
	}
	ld.classes[where] = next
	m.decor.touch()
	return nil
}

// LineClass returns row's class list for where, or "" if none.
func (m Model) LineClass(row int, where ClassTarget) string {
	if row < 0 || row >= len(m.decor.lines) || where < 0 || where >= classTargetCount {
		return ""
	}
	return m.decor.lines[row].classes[where]
}

func (m Model) lineDecor(row int, where ClassTarget) (*lineDecor, error) {
	if where < 0 || where >= classTargetCount {
		return nil, fmt.Errorf("editor: unknown class target %d", where)
	}
	if row < 0 || row >= m.buf.LineCount() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLine, row)
	}
	m.decor.ensureLines(m.buf.LineCount())
	return &m.decor.lines[row], nil
}

func addClass(list, class string) string {
	out := strings.Fields(list)
	for _, c := range strings.Fields(class) {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}

func removeClass(list, class string) string {
	if strings.TrimSpace(class) == "" {
		return ""
	}
	drop := strings.Fields(class)
	var out []string
	for _, c := range strings.Fields(list) {
		if !slices.Contains(drop, c) {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}

// LineHandle is a read-only view of one document line and its annotations.
type LineHandle struct {
	Row  int
	Text string

	TextClass       string
	BackgroundClass string
	GutterClass     string

	Widgets []*LineWidget
}

// EachLine calls fn for every document line in order.
func (m Model) EachLine(fn func(LineHandle)) {
	n := m.buf.LineCount()
	m.decor.ensureLines(n)
	for row := 0; row < n; row++ {
		ld := m.decor.lines[row]
		fn(LineHandle{
			Row:             row,
			Text:            m.buf.Line(row),
			TextClass:       ld.classes[ClassText],
			BackgroundClass: ld.classes[ClassBackground],
			GutterClass:     ld.classes[ClassGutter],
			Widgets:         append([]*LineWidget(nil), ld.widgets...),
		})
	}
}
