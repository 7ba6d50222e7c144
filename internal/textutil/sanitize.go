package textutil

import (
	"strings"
	"unicode"
)

// fileNameReplacer maps characters that are unsafe on common filesystems.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName turns a script title into a file name stem. Path
// separators, colons, and asterisks become dashes, other reserved characters
// and control runes are dropped, whitespace runs collapse to one space, and
// trailing dots are trimmed.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(fileNameReplacer.Replace(name)), " ")
	return strings.TrimRight(name, ". ")
}

// SanitizeToken converts a string to a lowercase filesystem-safe token for
// use inside generated file names. Letters (any script) and digits are kept,
// hyphens and underscores pass through, everything else becomes an
// underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
