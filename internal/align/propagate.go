package align

import (
	"fmt"
	"math"
	"strings"

	"scriptsync/internal/textnorm"
	"scriptsync/internal/transcript"
)

// AnomalyKind classifies non-fatal timing problems flagged on records.
type AnomalyKind int8

const (
	AnomalyNone AnomalyKind = iota
	// AnomalySlowWord marks characters of a word whose per-character
	// duration exceeded the anomaly threshold; the word is likely mis-timed.
	AnomalySlowWord
	// AnomalyUntimedWord marks characters of a word without timestamps.
	AnomalyUntimedWord
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalySlowWord:
		return "slow-word"
	case AnomalyUntimedWord:
		return "untimed-word"
	default:
		return ""
	}
}

// Anomaly summarizes one flagged recognized word.
type Anomaly struct {
	Kind AnomalyKind
	Word int
	Text string
	Eva  float64
}

func (a Anomaly) String() string {
	switch a.Kind {
	case AnomalySlowWord:
		return fmt.Sprintf("word %d %q: %.3fs per character", a.Word, a.Text, a.Eva)
	case AnomalyUntimedWord:
		return fmt.Sprintf("word %d %q: no timestamps", a.Word, a.Text)
	default:
		return fmt.Sprintf("word %d %q", a.Word, a.Text)
	}
}

// Token is a recognized word in canonical form together with the text that
// precedes it in the canonical recognized string.
type Token struct {
	Word      transcript.Word
	Index     int
	Canonical string
	Lead      string
}

// Content returns the token's span of canonical recognized text.
func (t Token) Content() string { return t.Lead + t.Canonical }

// Tokenize canonicalizes each word and drops the ones that canonicalize to
// nothing. Concatenating every token's Content yields the canonical
// recognized text.
func Tokenize(words []transcript.Word, n *textnorm.Normalizer) []Token {
	tokens := make([]Token, 0, len(words))
	for i, w := range words {
		c := n.Canonicalize(w.Text)
		if c == "" {
			continue
		}
		lead := ""
		if len(tokens) > 0 {
			lead = n.Joiner()
		}
		tokens = append(tokens, Token{Word: w, Index: i, Canonical: c, Lead: lead})
	}
	return tokens
}

// CanonicalText concatenates the tokens' content.
func CanonicalText(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Lead)
		b.WriteString(t.Canonical)
	}
	return b.String()
}

// PropagateOptions configures forward propagation.
type PropagateOptions struct {
	// AnomalyThreshold flags words whose per-character duration exceeds it.
	AnomalyThreshold float64
}

// Propagate stamps every recognized character in the stream from its word.
// Characters of the leading joiner get a zero-width stamp at the word start,
// interior characters get successive per-character slices, and the last
// character ends at the word end. Untimed words collapse to the last known
// time and are flagged. It returns the flagged words.
func Propagate(s *Stream, tokens []Token, opts PropagateOptions) ([]Anomaly, error) {
	var anomalies []Anomaly
	cursor := 0
	lastPoint := 0.0
	for _, tok := range tokens {
		content := []rune(tok.Content())
		leadLen := textnorm.RuneLen(tok.Lead)
		if cursor+len(content) > s.GeneratedLen() {
			return nil, &LengthError{Checkpoint: CheckpointForward, Got: cursor + len(content), Want: s.GeneratedLen()}
		}

		if !tok.Word.Timed() {
			prov := Untimed{Word: tok.Index, Text: tok.Word.Text, Reason: "word has no timestamps"}
			for n := range content {
				rec, _ := s.AtGenerated(cursor + n)
				rec.stamp(lastPoint, lastPoint)
				rec.Eva = 0
				rec.Provenance = prov
				rec.Anomaly = AnomalyUntimedWord
			}
			anomalies = append(anomalies, Anomaly{Kind: AnomalyUntimedWord, Word: tok.Index, Text: tok.Word.Text})
			cursor += len(content)
			continue
		}

		start, end := *tok.Word.Start, *tok.Word.End
		if end < start {
			end = start
		}
		eva := (end - start) / float64(len(content))
		anomaly := AnomalyNone
		if eva > opts.AnomalyThreshold {
			anomaly = AnomalySlowWord
			anomalies = append(anomalies, Anomaly{Kind: AnomalySlowWord, Word: tok.Index, Text: tok.Word.Text, Eva: eva})
		}
		prov := Forward{Word: tok.Index, Text: tok.Word.Text, Confidence: tok.Word.Score()}
		at := start
		for n := range content {
			rec, _ := s.AtGenerated(cursor + n)
			switch {
			case n < leadLen:
				rec.stamp(at, at)
			case n == len(content)-1:
				rec.stamp(at, end)
			default:
				next := math.Min(math.Max(roundMillis(at+eva), at), end)
				rec.stamp(at, next)
				at = next
			}
			rec.Eva = eva
			rec.Provenance = prov
			rec.Anomaly = anomaly
		}
		lastPoint = end
		cursor += len(content)
	}
	if cursor != s.GeneratedLen() {
		return nil, &LengthError{Checkpoint: CheckpointForward, Got: cursor, Want: s.GeneratedLen()}
	}
	return anomalies, nil
}

func roundMillis(v float64) float64 {
	return math.Round(v*1000) / 1000
}
