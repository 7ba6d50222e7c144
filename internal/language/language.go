package language

import (
	"strings"

	"golang.org/x/text/language"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
	// unspaced scripts join words with no separator.
	unspaced bool
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}, false},
	{"es", "spa", "", "Spanish", []string{"spanish"}, false},
	{"fr", "fra", "fre", "French", []string{"french"}, false},
	{"de", "deu", "ger", "German", []string{"german"}, false},
	{"it", "ita", "", "Italian", []string{"italian"}, false},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}, false},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}, true},
	{"ko", "kor", "", "Korean", []string{"korean"}, false},
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "mandarin"}, true},
	{"yue", "yue", "", "Cantonese", []string{"cantonese"}, true},
	{"th", "tha", "", "Thai", []string{"thai"}, true},
	{"lo", "lao", "", "Lao", []string{"lao"}, true},
	{"my", "mya", "bur", "Burmese", []string{"burmese"}, true},
	{"km", "khm", "", "Khmer", []string{"khmer"}, true},
	{"ru", "rus", "", "Russian", []string{"russian"}, false},
	{"ar", "ara", "", "Arabic", []string{"arabic"}, false},
	{"hi", "hin", "", "Hindi", []string{"hindi"}, false},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}, false},
	{"pl", "pol", "", "Polish", []string{"polish"}, false},
	{"sv", "swe", "", "Swedish", []string{"swedish"}, false},
	{"da", "dan", "", "Danish", []string{"danish"}, false},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}, false},
	{"fi", "fin", "", "Finnish", []string{"finnish"}, false},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}, false},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func clean(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// base reduces a BCP 47 tag ("zh-Hans-CN", "en_US") to its base language
// subtag. Plain codes and names come back unchanged.
func base(code string) string {
	if !strings.ContainsAny(code, "-_") {
		return code
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return code
	}
	b, _ := tag.Base()
	return b.String()
}

func lookup(code string) *entry {
	code = clean(code)
	if code == "" {
		return nil
	}
	code = base(code)
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Normalize folds any recognized code, name, or tag to its shortest code.
// Unrecognized input is lowercased and reduced to its base subtag.
func Normalize(code string) string {
	if e := lookup(code); e != nil {
		return e.code2
	}
	return base(clean(code))
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Unspaced reports whether the language is written without spaces between
// words.
func Unspaced(code string) bool {
	e := lookup(code)
	return e != nil && e.unspaced
}

// WordJoiner returns the separator placed between words of the language:
// empty for unspaced scripts, otherwise fallback.
func WordJoiner(code, fallback string) string {
	if Unspaced(code) {
		return ""
	}
	return fallback
}
