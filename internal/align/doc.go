// Package align maps recognizer word timestamps onto a source script.
//
// Run diffs the canonical recognizer text against the canonical source text,
// lays every edit-script character into one merged stream, stamps recognized
// characters from their words, synthesizes timing for source-only spans from
// the neighbouring anchors, and tightens large gaps between adjacent
// characters. The result carries a timestamp for every source character.
//
// The package is pure: no I/O, no logging, no shared state. Concurrent calls
// on separate inputs need no coordination.
package align
