// Package language normalizes the language codes attached to scripts,
// translations, and output file names, and knows which languages are written
// without spaces between words.
//
// Codes may arrive as ISO 639-1, ISO 639-2, English names, or BCP 47 tags
// such as "zh-Hans-CN"; every entry point folds them to one form first.
package language
