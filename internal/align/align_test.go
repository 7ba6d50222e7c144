package align

import (
	"errors"
	"math"
	"testing"

	"scriptsync/internal/textnorm"
	"scriptsync/internal/transcript"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func utterance(end float64, words ...transcript.Word) []transcript.Utterance {
	return []transcript.Utterance{{AudioEnd: end, Words: words}}
}

func runAlign(t *testing.T, source string, utterances []transcript.Utterance) *Timing {
	t.Helper()
	n := textnorm.New(textnorm.Options{Joiner: textnorm.DefaultJoiner})
	timing, err := Run(Input{Source: n.Canonicalize(source), Utterances: utterances}, n, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return timing
}

func sourceRecord(t *testing.T, timing *Timing, i int) *Record {
	t.Helper()
	rec, ok := timing.Stream.AtSource(i)
	if !ok {
		t.Fatalf("source index %d out of range", i)
	}
	return rec
}

func TestRunSingleCharacterDeletion(t *testing.T) {
	timing := runAlign(t, "hello world", utterance(1.1,
		transcript.TimedWord("helo", 0.0, 0.5),
		transcript.TimedWord("world", 0.6, 1.1),
	))

	start, end, err := timing.Span(0, timing.Stream.SourceLen()-1)
	if err != nil {
		t.Fatalf("Span: %v", err)
	}
	if !approx(start, 0) || !approx(end, 1.1) {
		t.Fatalf("span = [%v, %v], want [0, 1.1]", start, end)
	}

	// The inserted second "l" borrows the window before the next anchor,
	// which the guard shrinks to nothing.
	inserted := sourceRecord(t, timing, 3)
	if _, ok := inserted.Provenance.(MissingWord); !ok {
		t.Fatalf("inserted provenance = %T, want MissingWord", inserted.Provenance)
	}
	if !approx(inserted.Start, 0.375) || !approx(inserted.End, 0.375) {
		t.Fatalf("inserted timing = [%v, %v], want zero width at 0.375", inserted.Start, inserted.End)
	}
	if len(timing.Anomalies) != 0 {
		t.Fatalf("unexpected anomalies: %v", timing.Anomalies)
	}
}

func TestRunUnspokenTrailingSentence(t *testing.T) {
	timing := runAlign(t, "Hello world. Goodbye", utterance(2.0,
		transcript.TimedWord("hello", 0.0, 0.5),
		transcript.TimedWord("world", 0.6, 1.1),
	))

	if timing.Source != "hello world. goodbye" {
		t.Fatalf("source = %q", timing.Source)
	}
	last := sourceRecord(t, timing, timing.Stream.SourceLen()-1)
	if !approx(last.End, 2.0) {
		t.Fatalf("last end = %v, want 2.0", last.End)
	}
	first := sourceRecord(t, timing, 11)
	if !approx(first.Start, 1.1) {
		t.Fatalf("first synthesized start = %v, want 1.1", first.Start)
	}
	for i := 11; i < timing.Stream.SourceLen(); i++ {
		rec := sourceRecord(t, timing, i)
		if _, ok := rec.Provenance.(MissingWord); !ok {
			t.Fatalf("record %d provenance = %T, want MissingWord", i, rec.Provenance)
		}
	}
}

func TestRunLeadingGap(t *testing.T) {
	timing := runAlign(t, "well hello", utterance(1.5,
		transcript.TimedWord("hello", 1.0, 1.5),
	))

	first := sourceRecord(t, timing, 0)
	if !approx(first.Start, 0) {
		t.Fatalf("leading start = %v, want 0", first.Start)
	}
	space := sourceRecord(t, timing, 4)
	if !approx(space.End, 0.9) {
		t.Fatalf("leading end = %v, want 0.9", space.End)
	}
	gap, ok := space.Provenance.(LeadingGap)
	if !ok {
		t.Fatalf("provenance = %T, want LeadingGap", space.Provenance)
	}
	if gap.Anchor != 5 {
		t.Fatalf("anchor = %d, want 5", gap.Anchor)
	}
}

func TestRunLeadingGapClampsNegativeBudget(t *testing.T) {
	timing := runAlign(t, "well hello", utterance(0.5,
		transcript.TimedWord("hello", 0.05, 0.5),
	))

	for i := 0; i < 5; i++ {
		rec := sourceRecord(t, timing, i)
		if rec.Start < 0 || rec.End < rec.Start {
			t.Fatalf("record %d = [%v, %v], want non-negative and ordered", i, rec.Start, rec.End)
		}
		if !approx(rec.End, 0) {
			t.Fatalf("record %d end = %v, want 0 for an empty budget", i, rec.End)
		}
	}
	if h := sourceRecord(t, timing, 5); !approx(h.Start, 0.05) {
		t.Fatalf("anchor start = %v, want 0.05", h.Start)
	}
}

func TestRunHallucinationOverlap(t *testing.T) {
	timing := runAlign(t, "hi abc", utterance(0.8,
		transcript.TimedWord("hi", 0.0, 0.4),
		transcript.TimedWord("xyz", 0.5, 0.8),
	))

	a := sourceRecord(t, timing, 3)
	c := sourceRecord(t, timing, 5)
	if _, ok := a.Provenance.(HallucinationOverlap); !ok {
		t.Fatalf("provenance = %T, want HallucinationOverlap", a.Provenance)
	}
	if !approx(a.Start, 0.5) || !approx(c.End, 0.8) {
		t.Fatalf("overlap window = [%v, %v], want [0.5, 0.8]", a.Start, c.End)
	}
}

func TestRunUntimedWordIsNotFatal(t *testing.T) {
	timing := runAlign(t, "hello big world", utterance(1.1,
		transcript.TimedWord("hello", 0.0, 0.5),
		transcript.UntimedWord("big"),
		transcript.TimedWord("world", 0.6, 1.1),
	))

	if len(timing.Anomalies) != 1 || timing.Anomalies[0].Kind != AnomalyUntimedWord {
		t.Fatalf("anomalies = %v, want one untimed word", timing.Anomalies)
	}
	b := sourceRecord(t, timing, 6)
	if !b.Timed || !approx(b.Start, 0.5) || !approx(b.End, 0.5) {
		t.Fatalf("untimed record = %+v, want zero width at 0.5", b)
	}
	if Tag(b.Provenance) != "error" {
		t.Fatalf("tag = %q, want error", Tag(b.Provenance))
	}
}

func TestRunSlowWordAnomaly(t *testing.T) {
	timing := runAlign(t, "hi", utterance(3,
		transcript.TimedWord("hi", 0.0, 3.0),
	))
	if len(timing.Anomalies) != 1 || timing.Anomalies[0].Kind != AnomalySlowWord {
		t.Fatalf("anomalies = %v, want one slow word", timing.Anomalies)
	}
	if !approx(timing.Anomalies[0].Eva, 1.5) {
		t.Fatalf("eva = %v, want 1.5", timing.Anomalies[0].Eva)
	}
}

func TestRunSmoothsWideGap(t *testing.T) {
	timing := runAlign(t, "a b", utterance(1.6,
		transcript.TimedWord("a", 0.0, 1.0),
		transcript.TimedWord("b", 1.45, 1.6),
	))

	a := sourceRecord(t, timing, 0)
	space := sourceRecord(t, timing, 1)
	if !approx(a.End, 1.1) || !approx(space.Start, 1.35) {
		t.Fatalf("boundary = %v / %v, want 1.1 / 1.35", a.End, space.Start)
	}
	if gap := space.Start - a.End; !approx(gap, 0.25) {
		t.Fatalf("gap = %v, want 0.25", gap)
	}
	if timing.SmoothedGaps != 1 {
		t.Fatalf("smoothed = %d, want 1", timing.SmoothedGaps)
	}
}

func TestRunRejectsEmptyRecognition(t *testing.T) {
	n := textnorm.New(textnorm.Options{Joiner: textnorm.DefaultJoiner})
	_, err := Run(Input{Source: "hello"}, n, DefaultOptions())
	if !errors.Is(err, ErrInput) {
		t.Fatalf("err = %v, want ErrInput", err)
	}

	_, err = Run(Input{Source: "hello", Utterances: utterance(1, transcript.TimedWord("  ", 0, 1))}, n, DefaultOptions())
	if !errors.Is(err, ErrInput) {
		t.Fatalf("blank-word err = %v, want ErrInput", err)
	}
}

func TestRunRecognizedTextMismatch(t *testing.T) {
	n := textnorm.New(textnorm.Options{Joiner: textnorm.DefaultJoiner})
	_, err := Run(Input{
		Source:         "hello world",
		Utterances:     utterance(1, transcript.TimedWord("hello", 0, 0.5), transcript.TimedWord("world", 0.5, 1)),
		RecognizedText: "hello there world",
	}, n, DefaultOptions())
	var lengthErr *LengthError
	if !errors.As(err, &lengthErr) {
		t.Fatalf("err = %v, want LengthError", err)
	}
	if lengthErr.Checkpoint != CheckpointRecognizedText {
		t.Fatalf("checkpoint = %s", lengthErr.Checkpoint)
	}
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err does not unwrap to ErrLengthMismatch")
	}
}

func TestRunRecognizedTextMatch(t *testing.T) {
	n := textnorm.New(textnorm.Options{Joiner: textnorm.DefaultJoiner})
	_, err := Run(Input{
		Source:         "hello world",
		Utterances:     utterance(1, transcript.TimedWord("Hello,", 0, 0.5), transcript.TimedWord("world", 0.5, 1)),
		RecognizedText: "Hello,   WORLD",
	}, n, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunCJKWithoutJoiner(t *testing.T) {
	n := textnorm.New(textnorm.Options{Joiner: ""})
	timing, err := Run(Input{
		Source: n.Canonicalize("你好世界"),
		Utterances: utterance(1.0,
			transcript.TimedWord("你好", 0, 0.4),
			transcript.TimedWord("世界", 0.5, 1.0),
		),
	}, n, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if timing.Recognized != "你好世界" {
		t.Fatalf("recognized = %q", timing.Recognized)
	}
	start, end, err := timing.Span(2, 3)
	if err != nil {
		t.Fatalf("Span: %v", err)
	}
	if !approx(start, 0.5) || !approx(end, 1.0) {
		t.Fatalf("span = [%v, %v], want [0.5, 1.0]", start, end)
	}
}

func TestEveryTimedSourceRecordIsOrdered(t *testing.T) {
	timing := runAlign(t, "the quick brown fox jumps over the lazy dog", utterance(4,
		transcript.TimedWord("a", 0.0, 0.2),
		transcript.TimedWord("quick", 0.3, 0.7),
		transcript.TimedWord("brown", 0.8, 1.2),
		transcript.TimedWord("box", 1.3, 1.6),
		transcript.TimedWord("jump", 1.7, 2.0),
		transcript.TimedWord("over", 2.1, 2.4),
		transcript.TimedWord("lazy", 2.9, 3.3),
	))
	for i := 0; i < timing.Stream.SourceLen(); i++ {
		rec := sourceRecord(t, timing, i)
		if !rec.Timed || rec.End < rec.Start {
			t.Fatalf("source %d (%q) timing [%v, %v]", i, rec.Char, rec.Start, rec.End)
		}
	}
}

func wordsOf(texts ...string) []transcript.Word {
	words := make([]transcript.Word, 0, len(texts))
	for i, text := range texts {
		words = append(words, transcript.TimedWord(text, float64(i), float64(i)+0.5))
	}
	return words
}
