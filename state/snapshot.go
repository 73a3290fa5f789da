package state

import (
	"github.com/iw2rmb/flourish/buffer"
	"github.com/iw2rmb/flourish/editor"
)

// Position is a document position: zero-based line and grapheme column.
type Position struct {
	Line int `json:"line" yaml:"line"`
	Ch   int `json:"ch" yaml:"ch"`
}

func positionOf(p buffer.Pos) Position { return Position{Line: p.Row, Ch: p.GraphemeCol} }

func (p Position) pos() buffer.Pos { return buffer.Pos{Row: p.Line, GraphemeCol: p.Ch} }

// Snapshot is the serializable annotation state of an editor.
//
// A nil LineClasses entry means the line had no text class; a nil
// LineWidgets entry means it had no widgets.
type Snapshot struct {
	LineClasses []*string        `json:"lineClasses"`
	LineWidgets [][]WidgetRecord `json:"lineWidgets"`
	Markers     []MarkerRecord   `json:"markers"`
}

// MarkerRecord is one captured text marker.
type MarkerRecord struct {
	From    Position      `json:"from" yaml:"from"`
	To      Position      `json:"to" yaml:"to"`
	Options MarkerOptions `json:"options" yaml:"options"`
}

// WidgetRecord is one captured line widget. Node holds the widget's HTML.
type WidgetRecord struct {
	Node    string        `json:"node" yaml:"node"`
	Options WidgetOptions `json:"options" yaml:"options"`
}

// MarkerOptions holds the whitelisted marker options. Extra carries the
// caller-whitelisted host attributes; it is flattened into the options object
// when encoded.
type MarkerOptions struct {
	ClassName         string `json:"className,omitempty"`
	InclusiveLeft     bool   `json:"inclusiveLeft,omitempty"`
	InclusiveRight    bool   `json:"inclusiveRight,omitempty"`
	Atomic            bool   `json:"atomic,omitempty"`
	Collapsed         bool   `json:"collapsed,omitempty"`
	ClearOnEnter      bool   `json:"clearOnEnter,omitempty"`
	ClearWhenEmpty    bool   `json:"clearWhenEmpty,omitempty"`
	ReplacedWith      string `json:"replacedWith,omitempty"`
	HandleMouseEvents bool   `json:"handleMouseEvents,omitempty"`
	ReadOnly          bool   `json:"readOnly,omitempty"`
	AddToHistory      bool   `json:"addToHistory,omitempty"`
	StartStyle        string `json:"startStyle,omitempty"`
	EndStyle          string `json:"endStyle,omitempty"`
	Title             string `json:"title,omitempty"`
	Shared            bool   `json:"shared,omitempty"`

	Extra map[string]any `json:"-"`
}

// WidgetOptions holds the whitelisted line widget options, with Extra as in
// MarkerOptions.
type WidgetOptions struct {
	CoverGutter       bool `json:"coverGutter,omitempty"`
	NoHScroll         bool `json:"noHScroll,omitempty"`
	Above             bool `json:"above,omitempty"`
	ShowIfHidden      bool `json:"showIfHidden,omitempty"`
	HandleMouseEvents bool `json:"handleMouseEvents,omitempty"`
	InsertAt          *int `json:"insertAt,omitempty"`

	Extra map[string]any `json:"-"`
}

// DefaultMarkerProps lists the marker options every capture keeps.
var DefaultMarkerProps = []string{
	"className",
	"inclusiveLeft",
	"inclusiveRight",
	"atomic",
	"collapsed",
	"clearOnEnter",
	"clearWhenEmpty",
	"replacedWith",
	"handleMouseEvents",
	"readOnly",
	"addToHistory",
	"startStyle",
	"endStyle",
	"title",
	"shared",
}

// DefaultLineWidgetProps lists the line widget options every capture keeps.
var DefaultLineWidgetProps = []string{
	"coverGutter",
	"noHScroll",
	"above",
	"showIfHidden",
	"handleMouseEvents",
	"insertAt",
}

// ExtraProps extends the default whitelists with host attribute names.
type ExtraProps struct {
	Markers     []string
	LineWidgets []string
}

func markerOptionsOf(o editor.MarkOptions, extra []string) MarkerOptions {
	return MarkerOptions{
		ClassName:         o.ClassName,
		InclusiveLeft:     o.InclusiveLeft,
		InclusiveRight:    o.InclusiveRight,
		Atomic:            o.Atomic,
		Collapsed:         o.Collapsed,
		ClearOnEnter:      o.ClearOnEnter,
		ClearWhenEmpty:    o.ClearWhenEmpty,
		ReplacedWith:      o.ReplacedWith,
		HandleMouseEvents: o.HandleMouseEvents,
		ReadOnly:          o.ReadOnly,
		AddToHistory:      o.AddToHistory,
		StartStyle:        o.StartStyle,
		EndStyle:          o.EndStyle,
		Title:             o.Title,
		Shared:            o.Shared,
		Extra:             pickAttrs(o.Attrs, extra),
	}
}

func (o MarkerOptions) editorOptions() editor.MarkOptions {
	return editor.MarkOptions{
		ClassName:         o.ClassName,
		InclusiveLeft:     o.InclusiveLeft,
		InclusiveRight:    o.InclusiveRight,
		Atomic:            o.Atomic,
		Collapsed:         o.Collapsed,
		ClearOnEnter:      o.ClearOnEnter,
		ClearWhenEmpty:    o.ClearWhenEmpty,
		ReplacedWith:      o.ReplacedWith,
		HandleMouseEvents: o.HandleMouseEvents,
		ReadOnly:          o.ReadOnly,
		AddToHistory:      o.AddToHistory,
		StartStyle:        o.StartStyle,
		EndStyle:          o.EndStyle,
		Title:             o.Title,
		Shared:            o.Shared,
		Attrs:             cloneAttrs(o.Extra),
	}
}

func widgetOptionsOf(o editor.WidgetOptions, extra []string) WidgetOptions {
	return WidgetOptions{
		CoverGutter:       o.CoverGutter,
		NoHScroll:         o.NoHScroll,
		Above:             o.Above,
		ShowIfHidden:      o.ShowIfHidden,
		HandleMouseEvents: o.HandleMouseEvents,
		InsertAt:          o.InsertAt,
		Extra:             pickAttrs(o.Attrs, extra),
	}
}

func (o WidgetOptions) editorOptions() editor.WidgetOptions {
	return editor.WidgetOptions{
		CoverGutter:       o.CoverGutter,
		NoHScroll:         o.NoHScroll,
		Above:             o.Above,
		ShowIfHidden:      o.ShowIfHidden,
		HandleMouseEvents: o.HandleMouseEvents,
		InsertAt:          o.InsertAt,
		Attrs:             cloneAttrs(o.Extra),
	}
}
