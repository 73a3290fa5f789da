package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iw2rmb/flourish/editor"
	"github.com/iw2rmb/flourish/state"
	"github.com/iw2rmb/flourish/store"
)

const storeTimeout = 5 * time.Second

var statusStyle = lipgloss.NewStyle().Faint(true)

type savedMsg struct {
	rev store.Revision
	err error
}

type loadedMsg struct {
	snap state.Snapshot
	err  error
}

type keyMap struct {
	Quit, Save, Restore key.Binding

	Mark, MarkReadOnly         key.Binding
	ToggleLineClass, AddWidget key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Restore: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "restore")),

		Mark:            key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "mark selection")),
		MarkReadOnly:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "mark read-only")),
		ToggleLineClass: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "toggle line class")),
		AddWidget:       key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "add note")),
	}
}

type model struct {
	cfg     *config
	keys    keyMap
	ed      editor.Model
	adapter *state.Adapter
	store   *store.Store
	logger  *slog.Logger

	// last holds the most recent capture when no store is configured.
	last   *state.Snapshot
	status string
	width  int
	height int
}

func newModel(cfg *config, text string, adapter *state.Adapter, st *store.Store, logger *slog.Logger) model {
	return model{
		cfg:     cfg,
		keys:    defaultKeyMap(),
		ed:      newEditor(cfg, text),
		adapter: adapter,
		store:   st,
		logger:  logger,
		status:  "ctrl+s save · ctrl+o restore · ctrl+c quit",
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ed = m.ed.SetSize(msg.Width, max(msg.Height-1, 0))
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			// Let the editor reconcile annotation changes made above.
			m.ed, _ = m.ed.Update(nil)
			return m, cmd
		}
	case editor.EditBlockedMsg:
		m.status = "read-only"
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			m.logger.Error("save snapshot", "doc", m.ed.DocID(), "error", msg.err)
		} else {
			m.status = fmt.Sprintf("saved revision %s (%d markers)", msg.rev.ID, len(msg.rev.Snapshot.Markers))
		}
		return m, nil
	case loadedMsg:
		m.restore(msg.snap, msg.err)
		return m, nil
	}

	var cmd tea.Cmd
	m.ed, cmd = m.ed.Update(msg)
	return m, cmd
}

func (m model) View() string {
	return m.ed.View() + "\n" + statusStyle.Render(m.status)
}

// handleKey runs the demo's own commands. Every other key belongs to the
// editor.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	km := m.keys
	switch {
	case key.Matches(msg, km.Quit):
		return tea.Quit, true
	case key.Matches(msg, km.Save):
		return m.save(), true
	case key.Matches(msg, km.Restore):
		return m.load(), true
	case key.Matches(msg, km.Mark):
		m.markSelection(editor.MarkOptions{ClassName: m.cfg.MarkClass, InclusiveRight: true, ClearWhenEmpty: true})
	case key.Matches(msg, km.MarkReadOnly):
		m.markSelection(editor.MarkOptions{ClassName: "readonly", ReadOnly: true, Atomic: true})
	case key.Matches(msg, km.ToggleLineClass):
		m.toggleLineClass()
	case key.Matches(msg, km.AddWidget):
		m.addWidget()
	default:
		return nil, false
	}
	return nil, true
}

func (m *model) markSelection(opt editor.MarkOptions) {
	r, ok := m.ed.Buffer().Selection()
	if !ok {
		m.status = "select text first"
		return
	}
	if _, err := m.ed.MarkText(r.Start, r.End, opt); err != nil {
		m.status = "mark: " + err.Error()
		return
	}
	m.ed.Buffer().ClearSelection()
	m.status = fmt.Sprintf("marked %d:%d-%d:%d", r.Start.Row+1, r.Start.GraphemeCol, r.End.Row+1, r.End.GraphemeCol)
}

func (m *model) toggleLineClass() {
	row := m.ed.Buffer().Cursor().Row
	class := m.cfg.LineClass
	var err error
	if strings.Contains(" "+m.ed.LineClass(row, editor.ClassBackground)+" ", " "+class+" ") {
		err = m.ed.RemoveLineClass(row, editor.ClassBackground, class)
	} else {
		err = m.ed.AddLineClass(row, editor.ClassBackground, class)
	}
	if err != nil {
		m.status = "line class: " + err.Error()
	}
}

func (m *model) addWidget() {
	row := m.ed.Buffer().Cursor().Row
	node, err := noteNode(fmt.Sprintf("<div><b>note</b> on line %d</div>", row+1))
	if err != nil {
		m.status = "widget: " + err.Error()
		return
	}
	if _, err := m.ed.AddLineWidget(row, node, editor.WidgetOptions{}); err != nil {
		m.status = "widget: " + err.Error()
	}
}

func noteNode(src string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(src), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errors.New("empty fragment")
	}
	return nodes[0], nil
}

// save captures the annotations and persists them off the update loop.
func (m *model) save() tea.Cmd {
	snap, err := m.adapter.Capture(m.ed, state.ExtraProps{})
	if err != nil {
		m.status = "capture: " + err.Error()
		return nil
	}
	if m.store == nil {
		m.last = &snap
		m.status = fmt.Sprintf("captured %d markers in memory", len(snap.Markers))
		return nil
	}

	st, docID := m.store, m.ed.DocID()
	m.status = "saving…"
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		rev, err := st.Save(ctx, docID, snap)
		return savedMsg{rev: rev, err: err}
	}
}

func (m *model) load() tea.Cmd {
	if m.store == nil {
		if m.last == nil {
			m.status = "nothing captured yet"
			return nil
		}
		snap := *m.last
		return func() tea.Msg { return loadedMsg{snap: snap} }
	}

	st, docID := m.store, m.ed.DocID()
	m.status = "loading…"
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		rev, err := st.Latest(ctx, docID)
		return loadedMsg{snap: rev.Snapshot, err: err}
	}
}

// restore replaces the editor's annotations with snap. Applying onto the
// current editor would duplicate what is already there, so the text is moved
// into a fresh editor first.
func (m *model) restore(snap state.Snapshot, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		m.status = "no saved state for " + m.ed.DocID()
		return
	case err != nil:
		m.status = "load failed: " + err.Error()
		m.logger.Error("load snapshot", "doc", m.ed.DocID(), "error", err)
		return
	}

	old := m.ed.Buffer()
	if got, want := len(snap.LineClasses), old.LineCount(); got != want {
		m.status = fmt.Sprintf("saved state has %d lines, document has %d", got, want)
		return
	}

	ed := newEditor(m.cfg, old.Text())
	ed.Buffer().SetCursor(old.Cursor())
	ed = ed.SetSize(m.width, max(m.height-1, 0))
	if err := m.adapter.Apply(ed, snap); err != nil {
		// Keep what was applied; the snapshot is partially restored.
		m.status = "apply: " + err.Error()
	} else {
		m.status = fmt.Sprintf("restored %d markers", len(snap.Markers))
	}
	m.ed = ed
}
