// Package textutil provides text utilities for output naming and for a quick
// bag-of-words similarity check between a script and its recognized text.
//
// Fingerprints are term-frequency vectors. Spaced languages are tokenized on
// runs of letters and digits; unspaced scripts (Han, Hiragana, Katakana, Thai)
// contribute overlapping character bigrams instead, so the same similarity
// measure works for both.
package textutil
