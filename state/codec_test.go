package state

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestMarkerOptions_JSONKeysMatchDefaultWhitelist(t *testing.T) {
	all := MarkerOptions{
		ClassName: "c", InclusiveLeft: true, InclusiveRight: true, Atomic: true,
		Collapsed: true, ClearOnEnter: true, ClearWhenEmpty: true, ReplacedWith: "r",
		HandleMouseEvents: true, ReadOnly: true, AddToHistory: true, StartStyle: "s",
		EndStyle: "e", Title: "t", Shared: true,
	}
	assertKeys(t, all, DefaultMarkerProps)

	widget := WidgetOptions{
		CoverGutter: true, NoHScroll: true, Above: true, ShowIfHidden: true,
		HandleMouseEvents: true, InsertAt: intPtr(0),
	}
	assertKeys(t, widget, DefaultLineWidgetProps)
}

func assertKeys(t *testing.T, v any, want []string) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := make([]string, 0, len(m))
	for k := range m {
		got = append(got, k)
	}
	sort.Strings(got)
	want = append([]string(nil), want...)
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keys=%v, want %v", got, want)
	}
}

func TestMarkerOptions_ExtraIsFlattened(t *testing.T) {
	in := MarkerOptions{ClassName: "warn", Extra: map[string]any{"customFlag": "yes", "className": "shadowed"}}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `{"className":"warn","customFlag":"yes"}`; got != want {
		t.Fatalf("json=%s, want %s", got, want)
	}

	var out MarkerOptions
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := MarkerOptions{ClassName: "warn", Extra: map[string]any{"customFlag": "yes"}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("decoded=%+v, want %+v", out, want)
	}
}

func TestYAML_RoundTripKeepsNullPlaceholders(t *testing.T) {
	in := Snapshot{
		LineClasses: []*string{nil, strPtr("err")},
		LineWidgets: [][]WidgetRecord{
			{{Node: "<b>w</b>", Options: WidgetOptions{Above: true, InsertAt: intPtr(2), Extra: map[string]any{"kind": "lint"}}}},
			nil,
		},
		Markers: []MarkerRecord{{
			From:    Position{Line: 0, Ch: 1},
			To:      Position{Line: 1, Ch: 2},
			Options: MarkerOptions{ClassName: "warn", ReadOnly: true},
		}},
	}

	var buf bytes.Buffer
	if err := EncodeYAML(&buf, in); err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	text := buf.String()
	for _, want := range []string{"lineClasses:", "- null", "className: warn", "kind: lint"} {
		if !strings.Contains(text, want) {
			t.Fatalf("yaml missing %q:\n%s", want, text)
		}
	}

	out, err := DecodeYAML(&buf)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("yaml round trip:\n got: %+v\nwant: %+v", out, in)
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	if _, err := DecodeJSON(strings.NewReader("{")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecode_NullMarkersBecomeEmpty(t *testing.T) {
	fromJSON, err := DecodeJSON(strings.NewReader(`{"lineClasses":[],"lineWidgets":[],"markers":null}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	fromYAML, err := DecodeYAML(strings.NewReader("lineClasses: []\nlineWidgets: []\nmarkers: null\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	for name, s := range map[string]Snapshot{"json": fromJSON, "yaml": fromYAML} {
		if s.Markers == nil || len(s.Markers) != 0 {
			t.Fatalf("%s markers=%#v, want empty non-nil", name, s.Markers)
		}
	}
}

func TestExtraNames(t *testing.T) {
	got := extraNames(DefaultMarkerProps, []string{"a", "className", "", "a", "b"})
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("extraNames=%v, want %v", got, want)
	}
}
