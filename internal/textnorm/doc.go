// Package textnorm produces the canonical rendering of script and recognizer
// text used for diffing.
//
// Canonical text is NFC-composed, has every whitespace run collapsed to the
// language's word joiner, is lowercased, and has every punctuation symbol
// replaced by a single period. Source and recognizer text must pass through
// the same Normalizer or the resulting edit script is meaningless.
package textnorm
