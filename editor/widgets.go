package editor

import (
	"fmt"
	"maps"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

// WidgetOptions controls how a line widget is placed and rendered.
type WidgetOptions struct {
	// CoverGutter renders the widget from column 0 instead of after the
	// line-number gutter.
	CoverGutter bool
	NoHScroll   bool
	// Above places the widget before its line instead of after it.
	Above bool
	// ShowIfHidden keeps the widget visible when its line is hidden by a
	// collapsed marker.
	ShowIfHidden      bool
	HandleMouseEvents bool
	// InsertAt positions the widget among the line's widgets. Nil appends.
	InsertAt *int

	// Attrs carries host-defined properties that the editor stores but does
	// not interpret.
	Attrs map[string]any
}

func (o WidgetOptions) clone() WidgetOptions {
	if o.InsertAt != nil {
		at := *o.InsertAt
		o.InsertAt = &at
	}
	o.Attrs = maps.Clone(o.Attrs)
	return o
}

// LineWidget is an HTML block attached to a document line.
type LineWidget struct {
	node     *html.Node
	opt      WidgetOptions
	row      int
	owner    *decorations
	attached bool

	text     string
	rendered bool
}

// Node returns the widget's content node.
func (w *LineWidget) Node() *html.Node { return w.node }

// Options returns a copy of the widget's options.
func (w *LineWidget) Options() WidgetOptions { return w.opt.clone() }

// Line returns the widget's current line. It reports false once the widget
// has been cleared or its line deleted.
func (w *LineWidget) Line() (int, bool) {
	if w == nil || !w.attached {
		return 0, false
	}
	return w.row, true
}

// Clear detaches the widget. Clearing twice is a no-op.
func (w *LineWidget) Clear() {
	if w == nil || !w.attached {
		return
	}
	w.owner.removeWidget(w)
}

// AddLineWidget attaches node below (or above, see WidgetOptions.Above) row.
func (m Model) AddLineWidget(row int, node *html.Node, opt WidgetOptions) (*LineWidget, error) {
	if node == nil {
		return nil, ErrNilNode
	}
	if row < 0 || row >= m.buf.LineCount() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLine, row)
	}

	d := m.decor
	d.ensureLines(m.buf.LineCount())
	w := &LineWidget{
		node:     node,
		opt:      opt.clone(),
		row:      row,
		owner:    d,
		attached: true,
	}

	ws := d.lines[row].widgets
	at := len(ws)
	if opt.InsertAt != nil {
		at = min(max(*opt.InsertAt, 0), len(ws))
	}
	ws = append(ws, nil)
	copy(ws[at+1:], ws[at:])
	ws[at] = w
	d.lines[row].widgets = ws
	d.touch()
	return w, nil
}

// LineWidgets returns the widgets attached to row in display order.
func (m Model) LineWidgets(row int) []*LineWidget {
	if row < 0 || row >= len(m.decor.lines) {
		return nil
	}
	return append([]*LineWidget(nil), m.decor.lines[row].widgets...)
}

var widgetConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// displayText converts the widget's HTML into terminal text once.
func (w *LineWidget) displayText() string {
	if w.rendered {
		return w.text
	}
	w.rendered = true

	var sb strings.Builder
	if err := html.Render(&sb, w.node); err == nil {
		if md, err := widgetConverter.ConvertString(sb.String()); err == nil {
			w.text = strings.TrimSpace(md)
			return w.text
		}
	}
	w.text = strings.TrimSpace(nodeText(w.node))
	return w.text
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
