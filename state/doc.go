// Package state captures and restores an editor's annotation state: line
// classes, line widgets, and text markers.
//
// Capture reads a live editor into a Snapshot, a plain value that can be
// encoded as JSON or YAML and stored anywhere. Apply re-creates the recorded
// annotations on an editor whose document has the same line layout.
//
// Index i of Snapshot.LineClasses and Snapshot.LineWidgets refers to document
// line i at capture time. Apply does not validate that the target document
// still has that layout; callers check line counts themselves.
//
// Apply always adds: applying the same snapshot twice duplicates its widgets
// and markers. It stops at the first failing step and leaves the annotations
// created so far in place.
//
// Widget records keep their InsertAt option and Apply re-adds them in capture
// order, each at its stored index. Widgets that were placed with InsertAt can
// therefore come back in a different relative order: two widgets both added
// at index 0 are captured as B, A and restored as A, B. Clear InsertAt before
// capturing when the displayed order must survive.
package state
