package align

// SmoothOptions configures boundary smoothing.
type SmoothOptions struct {
	// GapThreshold is the smallest gap between adjacent records that is tightened.
	GapThreshold float64
	// Nudge moves each side of a tightened gap toward the other.
	Nudge float64
}

// smoothEpsilon absorbs float error when a gap equals the threshold.
const smoothEpsilon = 1e-9

// Smooth walks adjacent timed records in merged order and, for every gap of at
// least GapThreshold, extends the earlier record's end and pulls the later
// record's start in by Nudge. The nudge is fixed regardless of gap size. It
// returns the number of gaps tightened.
func Smooth(s *Stream, opts SmoothOptions) int {
	if opts.Nudge <= 0 || 2*opts.Nudge >= opts.GapThreshold {
		return 0
	}
	nudged := 0
	for i := 0; i+1 < len(s.Records); i++ {
		cur, next := &s.Records[i], &s.Records[i+1]
		if !cur.Timed || !next.Timed {
			continue
		}
		if next.Start-cur.End+smoothEpsilon < opts.GapThreshold {
			continue
		}
		cur.End = roundMillis(cur.End + opts.Nudge)
		next.Start = roundMillis(next.Start - opts.Nudge)
		nudged++
	}
	return nudged
}
