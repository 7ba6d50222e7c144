package subtitle

import "fmt"

// Retime copies cue timing from reference onto target cue by cue. Text and
// sequence numbers come from target. The cue counts must match.
func Retime(target, reference []Entry) ([]Entry, error) {
	if len(target) != len(reference) {
		return nil, &cueCountError{target: len(target), reference: len(reference)}
	}
	out := make([]Entry, len(target))
	for i, e := range target {
		e.Start = reference[i].Start
		e.End = reference[i].End
		out[i] = e
	}
	return out, nil
}

type cueCountError struct {
	target    int
	reference int
}

func (e *cueCountError) Error() string {
	return fmt.Sprintf("target has %d cues, reference has %d", e.target, e.reference)
}

func (e *cueCountError) Unwrap() error { return ErrCueCount }
