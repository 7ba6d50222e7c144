package subtitle

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"scriptsync/internal/align"
	"scriptsync/internal/document"
	"scriptsync/internal/textnorm"
	"scriptsync/internal/transcript"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func alignLayout(t *testing.T, doc *document.Document, utterances []transcript.Utterance) (*align.Timing, *Layout) {
	t.Helper()
	n := textnorm.New(textnorm.Options{Joiner: textnorm.DefaultJoiner})
	layout := NewLayout(doc, n)
	timing, err := align.Run(align.Input{Source: layout.Text, Utterances: utterances}, n, align.DefaultOptions())
	if err != nil {
		t.Fatalf("align.Run: %v", err)
	}
	return timing, layout
}

func sampleScript() (*document.Document, []transcript.Utterance) {
	doc := document.New("script", "en", []document.Paragraph{
		{Kind: document.KindText, Content: "Hello world."},
		{Kind: document.KindSectionEnd, Content: "Chapter two"},
		{Kind: document.KindText, Content: "Goodbye."},
	})
	utterances := []transcript.Utterance{{
		AudioEnd: 2.5,
		Words: []transcript.Word{
			transcript.TimedWord("hello", 0.2, 0.5),
			transcript.TimedWord("world", 0.6, 1.1),
			transcript.TimedWord("chapter", 1.2, 1.5),
			transcript.TimedWord("two", 1.55, 1.7),
			transcript.TimedWord("goodbye", 1.8, 2.2),
		},
	}}
	return doc, utterances
}

func TestNewLayoutSpans(t *testing.T) {
	doc, _ := sampleScript()
	layout := NewLayout(doc, textnorm.New(textnorm.Options{Joiner: textnorm.DefaultJoiner}))
	if layout.Text != "hello world. chapter two goodbye." {
		t.Fatalf("text = %q", layout.Text)
	}
	want := []Span{
		{Paragraph: 1, Kind: document.KindText, First: 0, Last: 11},
		{Paragraph: 2, Kind: document.KindSectionEnd, First: 12, Last: 23},
		{Paragraph: 3, Kind: document.KindText, First: 24, Last: 32},
	}
	if len(layout.Spans) != len(want) {
		t.Fatalf("spans = %+v", layout.Spans)
	}
	for i, w := range want {
		if layout.Spans[i] != w {
			t.Errorf("span %d = %+v, want %+v", i, layout.Spans[i], w)
		}
	}
}

func TestProjectSourceAndTranslations(t *testing.T) {
	doc, utterances := sampleScript()
	timing, layout := alignLayout(t, doc, utterances)
	fr := document.New("fr", "fr", []document.Paragraph{
		{Kind: document.KindText, Content: "Bonjour le monde."},
		{Kind: document.KindSectionEnd, Content: "Chapitre deux"},
		{Kind: document.KindText, Content: "Au revoir."},
	})

	tracks, err := Project(timing, layout, []Translation{{Name: "fr", Document: fr}}, Options{})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	src := tracks.Source.Entries
	if len(src) != 2 {
		t.Fatalf("source entries = %d, want 2", len(src))
	}
	if src[0].Seq != 1 || src[1].Seq != 2 {
		t.Fatalf("seq = %d, %d", src[0].Seq, src[1].Seq)
	}
	if src[0].Start != 0 {
		t.Fatalf("first start = %v, want clamped 0", src[0].Start)
	}
	if src[0].Text != "Hello world." || src[1].Text != "Goodbye." {
		t.Fatalf("texts = %q, %q", src[0].Text, src[1].Text)
	}
	if !approx(src[1].End, 2.5) {
		t.Fatalf("last end = %v, want 2.5", src[1].End)
	}
	for i := range src {
		if src[i].End < src[i].Start {
			t.Fatalf("entry %d inverted: %+v", i, src[i])
		}
		if i > 0 && src[i].Start < src[i-1].End {
			t.Fatalf("entry %d overlaps previous: %+v / %+v", i, src[i-1], src[i])
		}
	}

	if len(tracks.Translations) != 1 {
		t.Fatalf("translations = %d", len(tracks.Translations))
	}
	tr := tracks.Translations[0].Entries
	for i := range src {
		if tr[i].Start != src[i].Start || tr[i].End != src[i].End {
			t.Fatalf("translation entry %d timing %v-%v, source %v-%v", i, tr[i].Start, tr[i].End, src[i].Start, src[i].End)
		}
	}
	if tr[1].Text != "Au revoir." {
		t.Fatalf("translation text = %q", tr[1].Text)
	}
	if tracks.Merged != nil || tracks.MergedSkipped {
		t.Fatalf("merged track produced without Merge option")
	}
}

// recognizeScript turns paragraphs into recognizer words with dropped,
// substituted, and inserted words and strictly increasing timestamps.
func recognizeScript(faker *gofakeit.Faker, paragraphs []document.Paragraph) []transcript.Utterance {
	ms := func(v float64) float64 { return math.Round(v*1000) / 1000 }
	var words []transcript.Word
	at := 0.0
	emit := func(text string) {
		start := ms(at + faker.Float64Range(0, 0.5))
		end := ms(start + faker.Float64Range(0.01, 0.8))
		words = append(words, transcript.TimedWord(text, start, end))
		at = end
	}
	for _, p := range paragraphs {
		for _, w := range strings.Fields(p.Content) {
			switch faker.IntRange(0, 9) {
			case 0:
			case 1:
				emit(faker.Word())
			case 2:
				emit(w)
				emit(faker.Word())
			default:
				emit(w)
			}
		}
	}
	if len(words) == 0 {
		emit(faker.Word())
	}
	return []transcript.Utterance{{AudioEnd: ms(at + 0.5), Words: words}}
}

func TestProjectEntriesNeverOverlap(t *testing.T) {
	faker := gofakeit.New(20240611)
	for i := 0; i < 300; i++ {
		paragraphs := make([]document.Paragraph, faker.IntRange(1, 6))
		for j := range paragraphs {
			paragraphs[j] = document.Paragraph{Kind: document.KindText, Content: faker.Sentence(faker.IntRange(1, 10))}
		}
		doc := document.New("script", "en", paragraphs)
		timing, layout := alignLayout(t, doc, recognizeScript(faker, paragraphs))

		tracks, err := Project(timing, layout, nil, Options{})
		if err != nil {
			t.Fatalf("case %d: Project: %v", i, err)
		}
		entries := tracks.Source.Entries
		if len(entries) != len(paragraphs) {
			t.Fatalf("case %d: entries = %d, want %d", i, len(entries), len(paragraphs))
		}
		for j, e := range entries {
			if e.End < e.Start {
				t.Fatalf("case %d: entry %d inverted: %+v", i, j, e)
			}
			if j > 0 && e.Start < entries[j-1].End {
				t.Fatalf("case %d: entry %d %+v starts before entry %d ends %+v", i, j, e, j-1, entries[j-1])
			}
		}
	}
}

func TestProjectTranslationCountMismatchFailsOnlyThatTrack(t *testing.T) {
	doc, utterances := sampleScript()
	timing, layout := alignLayout(t, doc, utterances)
	short := document.New("de", "de", []document.Paragraph{{Content: "Hallo Welt."}})
	good := document.New("fr", "fr", []document.Paragraph{{Content: "a"}, {Content: "b"}, {Content: "c"}})

	tracks, err := Project(timing, layout, []Translation{{Name: "de", Document: short}, {Name: "fr", Document: good}}, Options{Merge: true, SourceAbove: true})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(tracks.Failed) != 1 || tracks.Failed[0].Name != "de" {
		t.Fatalf("failed = %+v", tracks.Failed)
	}
	if !errors.Is(tracks.Failed[0].Err, ErrParagraphCount) {
		t.Fatalf("failure err = %v", tracks.Failed[0].Err)
	}
	if len(tracks.Translations) != 1 || tracks.Translations[0].Name != "fr" {
		t.Fatalf("translations = %+v", tracks.Translations)
	}
	if len(tracks.Merged) != 2 || tracks.Merged[0].Text != "Hello world.\na" {
		t.Fatalf("merged = %+v", tracks.Merged)
	}
}

func TestProjectRejectsLayoutMismatch(t *testing.T) {
	doc, utterances := sampleScript()
	timing, _ := alignLayout(t, doc, utterances)
	other := NewLayout(document.New("x", "en", []document.Paragraph{{Content: "short"}}), textnorm.New(textnorm.Options{Joiner: " "}))
	_, err := Project(timing, other, nil, Options{})
	if !errors.Is(err, align.ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestMergeOrderingAndSkip(t *testing.T) {
	source := Track{Entries: []Entry{{Seq: 1, Start: 0, End: 1, Text: "hello"}}}
	fr := Track{Entries: []Entry{{Seq: 1, Start: 0, End: 1, Text: "bonjour"}}}
	es := Track{Entries: []Entry{{Seq: 1, Start: 0, End: 1, Text: "hola"}}}

	above := Merge(source, []Track{fr, es}, true)
	if above[0].Text != "hello\nbonjour\nhola" {
		t.Fatalf("above = %q", above[0].Text)
	}
	below := Merge(source, []Track{fr}, false)
	if below[0].Text != "bonjour\nhello" {
		t.Fatalf("below = %q", below[0].Text)
	}
	if below[0].Start != 0 || below[0].End != 1 {
		t.Fatalf("merged timing = %+v", below[0])
	}

	blank := Track{Entries: []Entry{{Seq: 1, Text: " "}}}
	if got := Merge(source, []Track{blank}, true); got != nil {
		t.Fatalf("expected nil merge, got %+v", got)
	}
	if got := Merge(source, nil, true); got != nil {
		t.Fatalf("expected nil merge without translations, got %+v", got)
	}
}
