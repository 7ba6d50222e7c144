package align

// Record is one character of the merged stream. SourceIndex and
// GeneratedIndex are -1 when the character is absent from that text.
type Record struct {
	MergedIndex    int
	Char           rune
	SourceIndex    int
	GeneratedIndex int
	Start          float64
	End            float64
	Timed          bool
	// Eva is the per-character duration used when the record was stamped.
	Eva        float64
	Provenance Provenance
	Anomaly    AnomalyKind
}

// HasSource reports whether the record belongs to the source text.
func (r *Record) HasSource() bool { return r.SourceIndex >= 0 }

// HasGenerated reports whether the record belongs to the recognized text.
func (r *Record) HasGenerated() bool { return r.GeneratedIndex >= 0 }

func (r *Record) stamp(start, end float64) {
	r.Start = start
	r.End = end
	r.Timed = true
}

// OpRun is the merged-index range [Start, End) covered by one edit op.
type OpRun struct {
	Kind  OpKind
	Start int
	End   int
}

// Len returns the number of records in the run.
func (r OpRun) Len() int { return r.End - r.Start }

// Stream is the merged character arena tying source, recognized, and timing
// index spaces together. Records are indexed by merged index.
type Stream struct {
	Records     []Record
	Runs        []OpRun
	bySource    []int
	byGenerated []int
}

// Len returns the number of merged records.
func (s *Stream) Len() int { return len(s.Records) }

// SourceLen returns the number of source characters.
func (s *Stream) SourceLen() int { return len(s.bySource) }

// GeneratedLen returns the number of recognized characters.
func (s *Stream) GeneratedLen() int { return len(s.byGenerated) }

// AtSource returns the record holding source character i.
func (s *Stream) AtSource(i int) (*Record, bool) {
	if i < 0 || i >= len(s.bySource) {
		return nil, false
	}
	return &s.Records[s.bySource[i]], true
}

// AtGenerated returns the record holding recognized character i.
func (s *Stream) AtGenerated(i int) (*Record, bool) {
	if i < 0 || i >= len(s.byGenerated) {
		return nil, false
	}
	return &s.Records[s.byGenerated[i]], true
}

// BuildIndex walks the edit script once and lays out the merged stream. It
// verifies the script reproduces texts of the expected canonical lengths.
func BuildIndex(ops []EditOp, sourceLen, recognizedLen int) (*Stream, error) {
	s := &Stream{
		Records:     make([]Record, 0, sourceLen+recognizedLen),
		Runs:        make([]OpRun, 0, len(ops)),
		bySource:    make([]int, 0, sourceLen),
		byGenerated: make([]int, 0, recognizedLen),
	}
	for _, op := range ops {
		start := len(s.Records)
		for _, ch := range op.Content {
			merged := len(s.Records)
			rec := Record{MergedIndex: merged, Char: ch, SourceIndex: -1, GeneratedIndex: -1}
			if op.Kind != OpDelete {
				rec.SourceIndex = len(s.bySource)
				s.bySource = append(s.bySource, merged)
			}
			if op.Kind != OpInsert {
				rec.GeneratedIndex = len(s.byGenerated)
				s.byGenerated = append(s.byGenerated, merged)
			}
			s.Records = append(s.Records, rec)
		}
		end := len(s.Records)
		if end == start {
			continue
		}
		if n := len(s.Runs); n > 0 && s.Runs[n-1].Kind == op.Kind {
			s.Runs[n-1].End = end
			continue
		}
		s.Runs = append(s.Runs, OpRun{Kind: op.Kind, Start: start, End: end})
	}
	if got := len(s.byGenerated); got != recognizedLen {
		return nil, &LengthError{Checkpoint: CheckpointDiffRecognized, Got: got, Want: recognizedLen}
	}
	if got := len(s.bySource); got != sourceLen {
		return nil, &LengthError{Checkpoint: CheckpointDiffSource, Got: got, Want: sourceLen}
	}
	return s, nil
}
