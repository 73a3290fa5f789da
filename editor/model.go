package editor

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/flourish/buffer"
)

// Model is a Bubble Tea component that renders and interacts with a buffer
// and the annotations attached to it.
type Model struct {
	cfg   Config
	buf   *buffer.Buffer
	decor *decorations

	focused bool

	viewport viewport.Model
	// rowStart maps document rows to their first visual row.
	rowStart []int

	lastBufVersion   uint64
	lastDecorVersion uint64
	lastCursor       buffer.Pos
}

func New(cfg Config) Model {
	if cfg.KeyMap.isZero() {
		cfg.KeyMap = DefaultKeyMap()
	}
	decor := newDecorations(0)
	m := Model{
		cfg: cfg,
		buf: buffer.New(cfg.Text, buffer.Options{
			HistoryLimit: cfg.HistoryLimit,
			OnChange:     decor.applyChange,
		}),
		decor:    decor,
		focused:  true,
		viewport: viewport.New(0, 0),
	}
	decor.ensureLines(m.buf.LineCount())
	m.lastBufVersion = m.buf.Version()
	m.lastCursor = m.buf.Cursor()
	m.rebuildContent()
	return m
}

func (m Model) Buffer() *buffer.Buffer { return m.buf }

func (m Model) DocID() string { return m.cfg.DocID }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	m.viewport.Width = max(width, 0)
	m.viewport.Height = max(height, 0)

	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursor()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.updateKey(msg)
		if m.syncFromBuffer() {
			m.followCursor()
		}
		return m, cmd
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		// Rebuild content in case the host mutated the buffer outside of the editor.
		m.syncFromBuffer()
		// Don't force-follow cursor here; allow manual scrolling via mouse wheel.
		return m, cmd
	default:
		// Hosts drive edits by mutating the buffer; the editor reconciles here.
		if m.syncFromBuffer() {
			m.followCursor()
		}
		return m, nil
	}
}

func (m Model) View() string {
	if m.stale() {
		m.rebuildContent()
	}
	return m.viewport.View()
}

func (m *Model) stale() bool {
	return m.buf.Version() != m.lastBufVersion || m.decor.version != m.lastDecorVersion
}

// syncFromBuffer applies cursor rules for markers and rebuilds content when
// the buffer or annotations changed.
func (m *Model) syncFromBuffer() (cursorChanged bool) {
	cur := m.buf.Cursor()
	if cur != m.lastCursor {
		m.applyCursorRules(m.lastCursor)
		cur = m.buf.Cursor()
	}
	if !m.stale() && cur == m.lastCursor {
		return false
	}
	cursorChanged = cur != m.lastCursor
	m.lastCursor = cur
	m.rebuildContent()
	return cursorChanged
}

// applyCursorRules clears ClearOnEnter markers the cursor entered and pushes
// the cursor out of atomic ranges in the direction it was moving.
func (m *Model) applyCursorRules(prev buffer.Pos) {
	cur := m.buf.Cursor()
	for _, tm := range m.AllMarks() {
		if tm.opt.ClearOnEnter && tm.strictlyInside(cur) {
			tm.Clear()
		}
	}
	for _, tm := range m.decor.marks {
		if !tm.opt.Atomic || !tm.strictlyInside(cur) {
			continue
		}
		if buffer.ComparePos(cur, prev) < 0 {
			m.buf.SetCursor(tm.from)
		} else {
			m.buf.SetCursor(tm.to)
		}
		return
	}
}

func (m *Model) rebuildContent() {
	m.lastBufVersion = m.buf.Version()
	m.lastDecorVersion = m.decor.version
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() {
	cur := m.buf.Cursor()
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}

	row, ok := m.visualRowOf(cur.Row)
	if !ok {
		return
	}
	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}
