// Package subtitle projects aligned character timing onto document paragraphs
// and renders the resulting entries as SRT.
//
// A Layout records where each source paragraph lives in the canonical source
// text. Project turns an align.Timing plus that Layout into a source track,
// one translation track per parallel document, and an optional merged
// bilingual track. A translation whose paragraph count differs from the
// source fails alone; a paragraph whose span cannot be resolved fails the
// whole projection.
//
// The SRT helpers also parse, validate, and retime existing subtitle files.
package subtitle
