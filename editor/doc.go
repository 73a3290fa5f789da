// Package editor provides a Bubble Tea text editor component backed by the
// buffer package.
//
// Besides viewport behavior and grapheme-aware rendering, the editor owns the
// transient annotation state hosts attach to a document:
//
//   - text markers (MarkText): a document range bound to presentation and
//     behavior options, tracked across edits;
//   - line widgets (AddLineWidget): HTML blocks rendered above or below a line;
//   - line classes (AddLineClass): space-separated class names attached to a
//     line's text, background, or gutter, resolved to styles through
//     Config.ClassStyles.
//
// Update handles keys through Config.KeyMap. Edits that would touch a
// read-only marker, or any edit when Config.ReadOnly is set, are refused and
// reported with EditBlockedMsg; deletions that cut into an atomic marker
// remove the whole marker range.
//
// All annotation state lives behind a pointer shared by copies of Model, so
// the value-receiver API mutates the same editor the Bubble Tea program owns.
// None of it is safe for concurrent use.
package editor
