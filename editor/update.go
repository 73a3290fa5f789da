package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish/buffer"
)

// EditBlockedMsg is emitted when a key edit was refused because the editor
// is read-only or the edit touches a read-only marker.
type EditBlockedMsg struct {
	Range buffer.Range
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused || m.buf == nil {
		return m, nil
	}

	// Paste events always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		return m, m.insert(string(msg.Runes))
	}

	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Left):
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft})
	case key.Matches(msg, km.Right):
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight})
	case key.Matches(msg, km.Up):
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirUp})
	case key.Matches(msg, km.Down):
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirDown})

	case key.Matches(msg, km.ShiftLeft):
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight, Extend: true})
	case key.Matches(msg, km.ShiftUp):
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirUp, Extend: true})
	case key.Matches(msg, km.ShiftDown):
		m.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirDown, Extend: true})

	case key.Matches(msg, km.WordLeft):
		m.buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirLeft})
	case key.Matches(msg, km.WordRight):
		m.buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirRight})
	case key.Matches(msg, km.ShiftWordLeft):
		m.buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftWordRight):
		m.buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirRight, Extend: true})

	case key.Matches(msg, km.Home):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirHome})
	case key.Matches(msg, km.End):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirEnd})
	case key.Matches(msg, km.ShiftHome):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirHome, Extend: true})
	case key.Matches(msg, km.ShiftEnd):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirEnd, Extend: true})
	case key.Matches(msg, km.DocStart):
		m.buf.Move(buffer.Move{Unit: buffer.MoveDoc, Dir: buffer.DirHome})
	case key.Matches(msg, km.DocEnd):
		m.buf.Move(buffer.Move{Unit: buffer.MoveDoc, Dir: buffer.DirEnd})

	case key.Matches(msg, km.Backspace):
		return m, m.deleteToward(buffer.DirLeft)
	case key.Matches(msg, km.Delete):
		return m, m.deleteToward(buffer.DirRight)
	case key.Matches(msg, km.Enter):
		return m, m.insert("\n")

	case key.Matches(msg, km.Undo):
		if !m.cfg.ReadOnly {
			_ = m.buf.Undo()
		}
	case key.Matches(msg, km.Redo):
		if !m.cfg.ReadOnly {
			_ = m.buf.Redo()
		}

	default:
		switch {
		case msg.Type == tea.KeyTab:
			return m, m.insert("\t")
		case msg.Type == tea.KeySpace:
			return m, m.insert(" ")
		case msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt:
			return m, m.insert(string(msg.Runes))
		}
	}

	return m, nil
}

// insert replaces the selection, or inserts at the cursor.
func (m Model) insert(text string) tea.Cmd {
	r, ok := m.buf.Selection()
	if !ok {
		cur := m.buf.Cursor()
		r = buffer.Range{Start: cur, End: cur}
	}
	return m.replace(r, text)
}

// deleteToward deletes the selection, or the grapheme (or line break) next to
// the cursor in dir.
func (m Model) deleteToward(dir buffer.MoveDir) tea.Cmd {
	r, ok := m.buf.Selection()
	if !ok {
		cur := m.buf.Cursor()
		next, moved := m.neighbor(cur, dir)
		if !moved {
			return nil
		}
		r = buffer.NormalizeRange(buffer.Range{Start: cur, End: next})
	}
	return m.replace(r, "")
}

func (m Model) neighbor(p buffer.Pos, dir buffer.MoveDir) (buffer.Pos, bool) {
	switch dir {
	case buffer.DirLeft:
		if p.GraphemeCol > 0 {
			return buffer.Pos{Row: p.Row, GraphemeCol: p.GraphemeCol - 1}, true
		}
		if p.Row > 0 {
			return buffer.Pos{Row: p.Row - 1, GraphemeCol: m.buf.LineLen(p.Row - 1)}, true
		}
	case buffer.DirRight:
		if p.GraphemeCol < m.buf.LineLen(p.Row) {
			return buffer.Pos{Row: p.Row, GraphemeCol: p.GraphemeCol + 1}, true
		}
		if p.Row < m.buf.LineCount()-1 {
			return buffer.Pos{Row: p.Row + 1}, true
		}
	}
	return p, false
}

// replace applies one edit as an undo step after widening r over any atomic
// marker it cuts into. Edits refused by ReadOnly settings yield an
// EditBlockedMsg instead.
func (m Model) replace(r buffer.Range, text string) tea.Cmd {
	if !r.IsEmpty() {
		r = m.widenAtomic(r)
	}
	if m.cfg.ReadOnly || m.ReadOnlyIn(r) {
		return func() tea.Msg { return EditBlockedMsg{Range: r} }
	}
	m.buf.Apply(buffer.TextEdit{Range: r, Text: text})
	return nil
}

func (m Model) widenAtomic(r buffer.Range) buffer.Range {
	for _, tm := range m.decor.marks {
		if !tm.opt.Atomic || !tm.overlaps(r) {
			continue
		}
		if buffer.ComparePos(tm.from, r.Start) < 0 {
			r.Start = tm.from
		}
		if buffer.ComparePos(tm.to, r.End) > 0 {
			r.End = tm.to
		}
	}
	return r
}
