// Package buffer implements the pure, grapheme-accurate document model for
// Flourish.
//
// Coordinates are 0-based (Row, GraphemeCol) in grapheme clusters.
// Ranges are half-open selections in document coordinates: [Start, End).
//
// Every effective mutation bumps Version and produces a Change describing the
// applied edits. Hosts that keep positions outside the buffer (markers,
// decorations) observe changes through Options.OnChange and map their
// positions with MapPos.
package buffer
