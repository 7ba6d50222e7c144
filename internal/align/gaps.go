package align

import "math"

// GapOptions configures gap synthesis.
type GapOptions struct {
	// FinalEnd is the end of the recognized audio, used when a source-only
	// run reaches the end of the stream.
	FinalEnd float64
	// AnchorGuard keeps synthesized timing this far before the next anchor.
	AnchorGuard float64
}

// SynthesizeGaps gives every source-only run timing derived from the run
// immediately before it, then verifies that every source record is timed.
// Propagate must have run first: every record bordering a source-only run
// is then already stamped.
func SynthesizeGaps(s *Stream, opts GapOptions) error {
	var prev *OpRun
	for i := range s.Runs {
		run := &s.Runs[i]
		if run.Kind != OpInsert {
			prev = run
			continue
		}
		switch {
		case prev == nil:
			fillLeading(s, *run, opts)
		case prev.Kind == OpEqual:
			fillMissing(s, *prev, *run, opts)
		default:
			fillOverlap(s, *prev, *run)
		}
		prev = nil
	}
	return checkComplete(s)
}

// nextAnchor reports the start of the record following run, or reached=true
// when the run ends the stream.
func nextAnchor(s *Stream, run OpRun) (start float64, index int, reached bool) {
	if run.End >= s.Len() {
		return 0, AnchorDocumentEnd, true
	}
	return s.Records[run.End].Start, run.End, false
}

func fillLeading(s *Stream, run OpRun, opts GapOptions) {
	nextStart, anchor, reached := nextAnchor(s, run)
	end := opts.FinalEnd
	if !reached {
		end = nextStart - opts.AnchorGuard
	}
	distribute(s, run, 0, end, LeadingGap{Anchor: anchor})
}

func fillMissing(s *Stream, prev, run OpRun, opts GapOptions) {
	last := &s.Records[prev.End-1]
	begin := last.End
	nextStart, to, reached := nextAnchor(s, run)
	end := opts.FinalEnd
	if !reached {
		end = nextStart - opts.AnchorGuard
	}
	// A next anchor closer than the guard collapses the window onto begin.
	distribute(s, run, begin, end, MissingWord{From: last.MergedIndex, To: to})
}

func fillOverlap(s *Stream, prev, run OpRun) {
	first := &s.Records[prev.Start]
	last := &s.Records[prev.End-1]
	distribute(s, run, first.Start, last.End, HallucinationOverlap{From: first.MergedIndex, To: last.MergedIndex})
}

// distribute slices [begin, end] evenly over the run. Slices are rounded to
// the millisecond but never pass end, and the last record ends exactly on it.
// An end before begin collapses the window onto begin.
func distribute(s *Stream, run OpRun, begin, end float64, prov Provenance) {
	limit := math.Max(end, begin)
	eva := 0.0
	if n := run.Len(); n > 0 {
		eva = (limit - begin) / float64(n)
	}
	at := begin
	for i := run.Start; i < run.End; i++ {
		rec := &s.Records[i]
		next := limit
		if i < run.End-1 {
			next = math.Min(math.Max(roundMillis(at+eva), at), limit)
		}
		rec.stamp(at, next)
		rec.Eva = eva
		rec.Provenance = prov
		at = next
	}
}

func checkComplete(s *Stream) error {
	for i := range s.Records {
		rec := &s.Records[i]
		if !rec.HasSource() {
			continue
		}
		if !rec.Timed {
			return &TimingError{MergedIndex: rec.MergedIndex, SourceIndex: rec.SourceIndex, Char: rec.Char, Reason: "no timestamps assigned"}
		}
		if rec.End < rec.Start {
			return &TimingError{MergedIndex: rec.MergedIndex, SourceIndex: rec.SourceIndex, Char: rec.Char, Reason: "end precedes start"}
		}
	}
	return nil
}
