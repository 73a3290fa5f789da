package state

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iw2rmb/flourish/buffer"
	"github.com/iw2rmb/flourish/editor"
)

// ErrEmptyWidget is returned by Apply when a widget record's HTML has no
// node to attach.
var ErrEmptyWidget = errors.New("state: widget html has no node")

// Editor is the editor surface the adapter reads and mutates. editor.Model
// implements it.
type Editor interface {
	AllMarks() []*editor.TextMarker
	EachLine(fn func(editor.LineHandle))
	MarkText(from, to buffer.Pos, opt editor.MarkOptions) (*editor.TextMarker, error)
	AddLineWidget(row int, node *html.Node, opt editor.WidgetOptions) (*editor.LineWidget, error)
	AddLineClass(row int, where editor.ClassTarget, class string) error
}

// WidgetRenderer produces the stored content of a line widget.
type WidgetRenderer interface {
	StateHTML(w *editor.LineWidget) (string, error)
}

// WidgetRendererFunc adapts a function to WidgetRenderer.
type WidgetRendererFunc func(w *editor.LineWidget) (string, error)

func (f WidgetRendererFunc) StateHTML(w *editor.LineWidget) (string, error) { return f(w) }

// Config configures an Adapter. The zero value is usable.
type Config struct {
	// Renderer, when set, produces widget content instead of serializing
	// the widget's node.
	Renderer WidgetRenderer
	// Sanitizer, when set, filters widget HTML before Apply parses it.
	Sanitizer *bluemonday.Policy
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Adapter captures and applies snapshots. It holds no editor state and may be
// shared between editors.
type Adapter struct {
	renderer  WidgetRenderer
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

func New(cfg Config) *Adapter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		renderer:  cfg.Renderer,
		sanitizer: cfg.Sanitizer,
		logger:    logger,
	}
}

var defaultAdapter = New(Config{})

// Capture captures ed with the default adapter.
func Capture(ed Editor, extra ExtraProps) (Snapshot, error) {
	return defaultAdapter.Capture(ed, extra)
}

// Apply applies s to ed with the default adapter.
func Apply(ed Editor, s Snapshot) error {
	return defaultAdapter.Apply(ed, s)
}

// Capture reads ed's markers, line widgets, and text classes. Only the
// default options and the attribute names in extra are kept.
func (a *Adapter) Capture(ed Editor, extra ExtraProps) (Snapshot, error) {
	markerExtra := extraNames(DefaultMarkerProps, extra.Markers)
	marks := ed.AllMarks()
	s := Snapshot{Markers: make([]MarkerRecord, 0, len(marks))}
	for _, tm := range marks {
		r, ok := tm.Find()
		if !ok {
			continue
		}
		s.Markers = append(s.Markers, MarkerRecord{
			From:    positionOf(r.Start),
			To:      positionOf(r.End),
			Options: markerOptionsOf(tm.Options(), markerExtra),
		})
	}

	widgetExtra := extraNames(DefaultLineWidgetProps, extra.LineWidgets)
	var (
		err     error
		widgets int
	)
	ed.EachLine(func(h editor.LineHandle) {
		if err != nil {
			return
		}
		s.LineClasses = append(s.LineClasses, classOf(h.TextClass))
		if len(h.Widgets) == 0 {
			s.LineWidgets = append(s.LineWidgets, nil)
			return
		}
		recs := make([]WidgetRecord, 0, len(h.Widgets))
		for i, w := range h.Widgets {
			content, rerr := a.widgetHTML(w)
			if rerr != nil {
				err = fmt.Errorf("state: render widget %d on line %d: %w", i, h.Row, rerr)
				return
			}
			recs = append(recs, WidgetRecord{
				Node:    content,
				Options: widgetOptionsOf(w.Options(), widgetExtra),
			})
		}
		widgets += len(recs)
		s.LineWidgets = append(s.LineWidgets, recs)
	})
	if err != nil {
		return Snapshot{}, err
	}

	a.logger.Debug("state captured",
		"lines", len(s.LineClasses),
		"widgets", widgets,
		"markers", len(s.Markers),
	)
	return s, nil
}

// Apply adds s's line classes, then its widgets, then its markers to ed.
// Nil line entries are skipped. The first failure is returned and earlier
// additions are kept.
func (a *Adapter) Apply(ed Editor, s Snapshot) error {
	for row, class := range s.LineClasses {
		if class == nil {
			continue
		}
		if err := ed.AddLineClass(row, editor.ClassText, *class); err != nil {
			return fmt.Errorf("state: line class on line %d: %w", row, err)
		}
	}

	widgets := 0
	for row, recs := range s.LineWidgets {
		if recs == nil {
			continue
		}
		for i, rec := range recs {
			node, err := a.widgetNode(rec.Node)
			if err != nil {
				return fmt.Errorf("state: widget %d on line %d: %w", i, row, err)
			}
			if _, err := ed.AddLineWidget(row, node, rec.Options.editorOptions()); err != nil {
				return fmt.Errorf("state: widget %d on line %d: %w", i, row, err)
			}
			widgets++
		}
	}

	for i, rec := range s.Markers {
		if _, err := ed.MarkText(rec.From.pos(), rec.To.pos(), rec.Options.editorOptions()); err != nil {
			return fmt.Errorf("state: marker %d: %w", i, err)
		}
	}

	a.logger.Debug("state applied",
		"lines", len(s.LineClasses),
		"widgets", widgets,
		"markers", len(s.Markers),
	)
	return nil
}

func (a *Adapter) widgetHTML(w *editor.LineWidget) (string, error) {
	if a.renderer != nil {
		return a.renderer.StateHTML(w)
	}
	var sb strings.Builder
	if err := html.Render(&sb, w.Node()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// widgetNode parses content into a detached container and returns its first
// child.
func (a *Adapter) widgetNode(content string) (*html.Node, error) {
	if a.sanitizer != nil {
		content = a.sanitizer.Sanitize(content)
	}
	container := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(content), container)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrEmptyWidget
	}
	return nodes[0], nil
}

func classOf(class string) *string {
	if class == "" {
		return nil
	}
	return &class
}
