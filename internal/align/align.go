package align

import (
	"fmt"

	"scriptsync/internal/textnorm"
	"scriptsync/internal/transcript"
)

// Options tunes the pipeline. Zero values fall back to DefaultOptions.
type Options struct {
	AnomalyThreshold float64
	GapThreshold     float64
	GapNudge         float64
	AnchorGuard      float64
}

// DefaultOptions returns the standard thresholds in seconds.
func DefaultOptions() Options {
	return Options{
		AnomalyThreshold: 0.2,
		GapThreshold:     0.3,
		GapNudge:         0.1,
		AnchorGuard:      0.1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AnomalyThreshold <= 0 {
		o.AnomalyThreshold = d.AnomalyThreshold
	}
	if o.GapThreshold <= 0 {
		o.GapThreshold = d.GapThreshold
	}
	if o.GapNudge <= 0 {
		o.GapNudge = d.GapNudge
	}
	if o.AnchorGuard < 0 {
		o.AnchorGuard = d.AnchorGuard
	}
	return o
}

// Input is one alignment request.
type Input struct {
	// Source is the canonical source text, already produced by the same
	// Normalizer passed to Run.
	Source string
	// Utterances is the recognizer output.
	Utterances []transcript.Utterance
	// RecognizedText, when set, must canonicalize to the same text as the
	// utterance words joined by the word joiner.
	RecognizedText string
}

// Timing is the merged stream with every source character timed, plus the
// artifacts that produced it.
type Timing struct {
	Stream       *Stream
	Ops          []EditOp
	Source       string
	Recognized   string
	FinalEnd     float64
	Anomalies    []Anomaly
	SmoothedGaps int
	InsertRuns   int
}

// Run executes diff, index building, forward propagation, gap synthesis, and
// boundary smoothing. Any invariant failure aborts with no partial result.
func Run(in Input, n *textnorm.Normalizer, opts Options) (*Timing, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: normalizer is required", ErrInput)
	}
	opts = opts.withDefaults()

	tokens := Tokenize(transcript.Words(in.Utterances), n)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: recognizer output has no words", ErrInput)
	}
	if in.Source == "" {
		return nil, fmt.Errorf("%w: source text is empty", ErrInput)
	}
	recognized := CanonicalText(tokens)
	if in.RecognizedText != "" {
		if err := checkRecognizedText(n.Canonicalize(in.RecognizedText), recognized); err != nil {
			return nil, err
		}
	}

	source := []rune(in.Source)
	ops := Diff(recognized, in.Source)
	stream, err := BuildIndex(ops, len(source), textnorm.RuneLen(recognized))
	if err != nil {
		return nil, fmt.Errorf("index edit script: %w", err)
	}

	anomalies, err := Propagate(stream, tokens, PropagateOptions{AnomalyThreshold: opts.AnomalyThreshold})
	if err != nil {
		return nil, fmt.Errorf("propagate word timing: %w", err)
	}

	finalEnd := transcript.FinalEnd(in.Utterances)
	if err := SynthesizeGaps(stream, GapOptions{
		FinalEnd:    finalEnd,
		AnchorGuard: opts.AnchorGuard,
	}); err != nil {
		return nil, fmt.Errorf("synthesize gap timing: %w", err)
	}

	smoothed := Smooth(stream, SmoothOptions{GapThreshold: opts.GapThreshold, Nudge: opts.GapNudge})

	insertRuns := 0
	for _, run := range stream.Runs {
		if run.Kind == OpInsert {
			insertRuns++
		}
	}

	return &Timing{
		Stream:       stream,
		Ops:          ops,
		Source:       in.Source,
		Recognized:   recognized,
		FinalEnd:     finalEnd,
		Anomalies:    anomalies,
		SmoothedGaps: smoothed,
		InsertRuns:   insertRuns,
	}, nil
}

func checkRecognizedText(supplied, built string) error {
	if supplied == built {
		return nil
	}
	return &LengthError{
		Checkpoint: CheckpointRecognizedText,
		Got:        textnorm.RuneLen(supplied),
		Want:       textnorm.RuneLen(built),
	}
}

// Span returns the start of source character first and the end of source
// character last.
func (t *Timing) Span(first, last int) (float64, float64, error) {
	start, ok := t.Stream.AtSource(first)
	if !ok {
		return 0, 0, fmt.Errorf("source index %d out of range (source length %d)", first, t.Stream.SourceLen())
	}
	end, ok := t.Stream.AtSource(last)
	if !ok {
		return 0, 0, fmt.Errorf("source index %d out of range (source length %d)", last, t.Stream.SourceLen())
	}
	return start.Start, end.End, nil
}
