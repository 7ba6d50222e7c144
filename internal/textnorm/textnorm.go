package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultJoiner separates words in canonical text for space-delimited languages.
const DefaultJoiner = " "

// Replacement is the rune every punctuation symbol collapses to.
const Replacement = '.'

// DefaultPunctuation lists the symbols folded to Replacement. It covers ASCII,
// CJK full-width, and typographic punctuation seen in scripts and recognizer
// output.
const DefaultPunctuation = `.,;:?!-()[]{}` + "`" + `~'"„“”‘’…—_、￥《》「」『』【】。・ー（）·–！？；：［］｛｝｜／＊＆％＃＠＋＝＄＾＿｀〜＼．＜＞⟨⟩«»‹›‚•‣⁃․′″‴‵‶‷§¶⁋†‡⸺⸻❛❜❝❞❡❢❣❯❮❭❬❱❲❳❴❵¿，`

// Options configures a Normalizer.
type Options struct {
	// Joiner replaces whitespace runs. An empty joiner removes whitespace,
	// which suits scripts without word spacing.
	Joiner string
	// Punctuation holds the symbols folded to Replacement. Empty means
	// DefaultPunctuation. Whitespace runes are ignored.
	Punctuation string
}

// Normalizer canonicalizes text. It is immutable and safe for concurrent use.
type Normalizer struct {
	joiner string
	punct  map[rune]struct{}
}

// New builds a Normalizer from opts.
func New(opts Options) *Normalizer {
	symbols := opts.Punctuation
	if symbols == "" {
		symbols = DefaultPunctuation
	}
	punct := make(map[rune]struct{}, len(symbols))
	for _, r := range symbols {
		if unicode.IsSpace(r) {
			continue
		}
		punct[r] = struct{}{}
	}
	return &Normalizer{joiner: opts.Joiner, punct: punct}
}

// Joiner returns the word joiner used between canonical words.
func (n *Normalizer) Joiner() string {
	return n.joiner
}

// Canonicalize returns the canonical form of s.
func (n *Normalizer) Canonicalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), n.joiner)
	// Casers carry state, so one per call keeps Normalizer shareable.
	s = cases.Lower(language.Und).String(s)
	return strings.Map(func(r rune) rune {
		if _, ok := n.punct[r]; ok {
			return Replacement
		}
		return r
	}, s)
}

// IsPunctuation reports whether every rune of s is in the punctuation set.
func (n *Normalizer) IsPunctuation(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if _, ok := n.punct[r]; !ok {
			return false
		}
	}
	return true
}

// Join canonicalizes each part and joins the non-empty results with the
// joiner, mirroring how a canonical string is built from words or paragraphs.
func (n *Normalizer) Join(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if c := n.Canonicalize(part); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, n.joiner)
}

// RuneLen returns the length of s in runes, the unit every index in the
// alignment pipeline counts in.
func RuneLen(s string) int {
	return len([]rune(s))
}
