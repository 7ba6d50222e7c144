package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SectionMarker flags a section-end line in line-oriented scripts.
const SectionMarker = "##"

// Options configures how paragraphs are cleaned.
type Options struct {
	Name     string
	Language string
	// Replacements maps a literal to its substitute. Keys made only of
	// punctuation are replaced anywhere; other keys only on word boundaries.
	Replacements map[string]string
	// CaseSensitive disables case folding for word replacements.
	CaseSensitive bool
	// PreserveFullWidthSpaces collapses only ASCII whitespace, keeping
	// ideographic spaces inside lines.
	PreserveFullWidthSpaces bool
}

// Loader parses one script format.
type Loader interface {
	Load(r io.Reader, opts Options) (*Document, error)
}

// SupportedExtensions lists the script formats ForFile accepts.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".pdf":      true,
}

// ForFile returns the loader for a filename.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	case ".pdf":
		return &PDFLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported script extension: %q", ext)
	}
}

// Load opens path and parses it with the loader for its extension. An empty
// opts.Name defaults to the file's base name without extension.
func Load(path string, opts Options) (*Document, error) {
	loader, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	if opts.Name == "" {
		opts.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	doc, err := loader.Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	if doc.Len() == 0 {
		return nil, fmt.Errorf("load %s: script has no paragraphs", filepath.Base(path))
	}
	return doc, nil
}

// builder cleans and appends paragraphs.
type builder struct {
	doc      *Document
	opts     Options
	replacer []replacement
}

type replacement struct {
	literal string
	word    *regexp.Regexp
	value   string
}

func newBuilder(opts Options) *builder {
	return &builder{
		doc:      &Document{Name: opts.Name, Language: opts.Language},
		opts:     opts,
		replacer: compileReplacements(opts.Replacements, opts.CaseSensitive),
	}
}

// compileReplacements orders keys longest first so overlapping keys resolve
// deterministically.
func compileReplacements(table map[string]string, caseSensitive bool) []replacement {
	keys := make([]string, 0, len(table))
	for k := range table {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	out := make([]replacement, 0, len(keys))
	for _, k := range keys {
		r := replacement{value: table[k]}
		if isPunctuation(k) {
			r.literal = k
		} else {
			pattern := regexp.QuoteMeta(k)
			if !caseSensitive {
				pattern = "(?i)" + pattern
			}
			r.word = regexp.MustCompile(pattern)
		}
		out = append(out, r)
	}
	return out
}

func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

func (b *builder) add(kind Kind, raw string) {
	b.doc.Append(kind, b.clean(raw))
}

// addLine classifies a line-oriented paragraph by its section marker.
func (b *builder) addLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	kind := KindText
	if strings.HasPrefix(line, SectionMarker) || strings.HasSuffix(line, SectionMarker) {
		kind = KindSectionEnd
	}
	b.add(kind, strings.ReplaceAll(line, SectionMarker, ""))
}

func (b *builder) clean(s string) string {
	s = strings.NewReplacer("\r", "", "\n", " ").Replace(s)
	if b.opts.PreserveFullWidthSpaces {
		s = strings.Join(strings.FieldsFunc(s, isASCIISpace), " ")
	} else {
		s = strings.Join(strings.Fields(s), " ")
	}
	for _, r := range b.replacer {
		if r.word == nil {
			s = strings.ReplaceAll(s, r.literal, r.value)
			continue
		}
		s = r.replaceWords(s)
	}
	return strings.TrimSpace(s)
}

// replaceWords substitutes matches that sit on word boundaries. RE2's \b
// only knows ASCII, so boundaries are checked here against Unicode word
// characters.
func (r replacement) replaceWords(s string) string {
	var b strings.Builder
	last, from := 0, 0
	for from <= len(s) {
		loc := r.word.FindStringIndex(s[from:])
		if loc == nil {
			break
		}
		start, end := from+loc[0], from+loc[1]
		if start == end || !atWordBoundary(s, start) || !atWordBoundary(s, end) {
			_, size := utf8.DecodeRuneInString(s[start:])
			from = start + max(size, 1)
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(r.value)
		last, from = end, end
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func atWordBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
