package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/flourish/buffer"
	graphemeutil "github.com/iw2rmb/flourish/internal/grapheme"
)

// cell is one rendered grapheme. Virtual cells come from collapsed marker
// replacements and have no document position.
type cell struct {
	g       string
	pos     buffer.Pos
	virtual bool
	marker  *TextMarker
}

func (m *Model) renderContent() string {
	n := m.buf.LineCount()
	m.decor.ensureLines(n)

	digits := 0
	gutterWidth := 0
	if m.cfg.ShowLineNums {
		digits = len(strconv.Itoa(n))
		gutterWidth = digits + 1
	}
	contentWidth := m.viewport.Width - m.viewport.Style.GetHorizontalFrameSize() - gutterWidth

	hidden := m.hiddenRows(n)
	m.rowStart = make([]int, n)

	var out []string
	for row := 0; row < n; row++ {
		ld := m.decor.lines[row]
		m.rowStart[row] = len(out)
		if hidden[row] {
			out = append(out, m.renderWidgets(ld.widgets, nil, true, gutterWidth, contentWidth)...)
			continue
		}

		above := true
		out = append(out, m.renderWidgets(ld.widgets, &above, false, gutterWidth, contentWidth)...)
		m.rowStart[row] = len(out)

		var sb strings.Builder
		if m.cfg.ShowLineNums {
			sb.WriteString(m.renderGutter(row, ld, digits))
		}
		sb.WriteString(m.renderLine(row, ld, contentWidth))
		out = append(out, sb.String())

		below := false
		out = append(out, m.renderWidgets(ld.widgets, &below, false, gutterWidth, contentWidth)...)
	}
	return strings.Join(out, "\n")
}

func (m *Model) visualRowOf(row int) (int, bool) {
	if row < 0 || row >= len(m.rowStart) {
		return 0, false
	}
	return m.rowStart[row], true
}

// hiddenRows marks lines swallowed by multi-line collapsed markers. The line
// holding the marker start stays visible and renders the replacement.
func (m *Model) hiddenRows(n int) []bool {
	hidden := make([]bool, n)
	for _, tm := range m.decor.marks {
		if !tm.opt.Collapsed || tm.from == tm.to {
			continue
		}
		for row := tm.from.Row + 1; row <= tm.to.Row && row < n; row++ {
			hidden[row] = true
		}
	}
	return hidden
}

func (m *Model) renderGutter(row int, ld lineDecor, digits int) string {
	numStyle := m.cfg.Style.LineNum
	if m.focused && row == m.buf.Cursor().Row {
		numStyle = m.cfg.Style.LineNumActive
	}
	if gs, ok := m.classStyle(ld.classes[ClassGutter]); ok {
		numStyle = gs.Inherit(numStyle)
	}
	return numStyle.Render(fmt.Sprintf("%*d", digits, row+1)) + m.cfg.Style.Gutter.Render(" ")
}

// lineCells lays out row, following collapsed markers into later lines.
func (m *Model) lineCells(row int) []cell {
	var cells []cell
	pos := buffer.Pos{Row: row}
	line := graphemeutil.Split(m.buf.Line(row))
	for {
		if tm := m.collapsedAt(pos); tm != nil {
			for _, g := range graphemeutil.Split(tm.opt.ReplacedWith) {
				cells = append(cells, cell{g: g, virtual: true, marker: tm})
			}
			if tm.to.Row != pos.Row {
				line = graphemeutil.Split(m.buf.Line(tm.to.Row))
			}
			pos = tm.to
			continue
		}
		if pos.GraphemeCol >= len(line) {
			return cells
		}
		cells = append(cells, cell{g: line[pos.GraphemeCol], pos: pos})
		pos.GraphemeCol++
	}
}

// collapsedAt returns the longest collapsed marker starting at pos.
func (m *Model) collapsedAt(pos buffer.Pos) *TextMarker {
	var best *TextMarker
	for _, tm := range m.decor.marks {
		if !tm.opt.Collapsed || tm.from != pos || tm.from == tm.to {
			continue
		}
		if best == nil || buffer.ComparePos(tm.to, best.to) > 0 {
			best = tm
		}
	}
	return best
}

func (m *Model) renderLine(row int, ld lineDecor, contentWidth int) string {
	cells := m.lineCells(row)
	cursor := m.buf.Cursor()
	sel, selOK := m.buf.Selection()

	base := m.cfg.Style.Text
	bg, hasBG := m.classStyle(ld.classes[ClassBackground])
	if hasBG {
		base = bg.Inherit(base)
	}
	if ts, ok := m.classStyle(ld.classes[ClassText]); ok {
		base = ts.Inherit(base)
	}

	var sb strings.Builder
	endPos := buffer.Pos{Row: row}
	for _, c := range cells {
		st := base
		if c.virtual {
			if ms, ok := m.classStyle(c.marker.opt.ClassName); ok {
				st = ms.Inherit(st)
			}
			sb.WriteString(st.Render(c.g))
			continue
		}
		st = m.styleAt(c.pos, st)
		if selOK && sel.Contains(c.pos) {
			st = m.cfg.Style.Selection.Inherit(st)
		}
		if m.focused && c.pos == cursor {
			st = m.cfg.Style.Cursor.Inherit(st)
		}
		sb.WriteString(st.Render(c.g))
		endPos = buffer.Pos{Row: c.pos.Row, GraphemeCol: c.pos.GraphemeCol + 1}
	}
	if len(cells) > 0 && cells[len(cells)-1].virtual {
		endPos = cells[len(cells)-1].marker.to
	}
	if m.focused && cursor == endPos {
		sb.WriteString(m.cfg.Style.Cursor.Inherit(base).Render(" "))
	}

	rendered := sb.String()
	if hasBG && contentWidth > 0 {
		if pad := contentWidth - lipgloss.Width(rendered); pad > 0 {
			rendered += bg.Render(strings.Repeat(" ", pad))
		}
	}
	return rendered
}

// styleAt layers marker classes covering pos over st, in creation order.
func (m *Model) styleAt(pos buffer.Pos, st lipgloss.Style) lipgloss.Style {
	for _, tm := range m.decor.marks {
		if tm.opt.Collapsed || !tm.covers(pos) || tm.from == tm.to {
			continue
		}
		classes := tm.opt.ClassName
		if pos == tm.from && tm.opt.StartStyle != "" {
			classes = tm.opt.StartStyle + " " + classes
		}
		if tm.to.GraphemeCol > 0 && pos == (buffer.Pos{Row: tm.to.Row, GraphemeCol: tm.to.GraphemeCol - 1}) && tm.opt.EndStyle != "" {
			classes = tm.opt.EndStyle + " " + classes
		}
		if ms, ok := m.classStyle(classes); ok {
			st = ms.Inherit(st)
		}
	}
	return st
}

// renderWidgets renders the widgets matching placement (nil matches both).
// onlyShowIfHidden keeps widgets that opted into showing on hidden lines.
func (m *Model) renderWidgets(ws []*LineWidget, above *bool, onlyShowIfHidden bool, gutterWidth, contentWidth int) []string {
	var out []string
	for _, w := range ws {
		if above != nil && w.opt.Above != *above {
			continue
		}
		if onlyShowIfHidden && !w.opt.ShowIfHidden {
			continue
		}
		prefix := strings.Repeat(" ", gutterWidth)
		width := contentWidth
		if w.opt.CoverGutter {
			prefix = ""
			width += gutterWidth
		}
		for _, line := range strings.Split(w.displayText(), "\n") {
			if width > 0 {
				line = runewidth.Truncate(line, width, "…")
			}
			out = append(out, prefix+m.cfg.Style.Widget.Render(line))
		}
	}
	return out
}
