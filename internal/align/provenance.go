package align

import "fmt"

// Provenance records what produced a record's timestamps. The concrete types
// are Forward, LeadingGap, MissingWord, HallucinationOverlap, and Untimed.
type Provenance interface {
	fmt.Stringer
	provenance()
}

// AnchorDocumentEnd stands in for an anchor index when a synthesized run
// reaches the end of the merged stream and borrows the final audio end.
const AnchorDocumentEnd = -1

// Forward timestamps come straight from a recognized word.
type Forward struct {
	Word       int
	Text       string
	Confidence float64
}

// LeadingGap timestamps fill a source-only run at the start of the stream.
type LeadingGap struct {
	// Anchor is the merged index whose start bounded the budget.
	Anchor int
}

// MissingWord timestamps fill a source-only run that follows matched text.
type MissingWord struct {
	// From is the merged index of the preceding anchor's last record.
	From int
	// To is the merged index of the following anchor.
	To int
}

// HallucinationOverlap timestamps reuse the window of the recognized-only run
// immediately before the source-only run.
type HallucinationOverlap struct {
	From int
	To   int
}

// Untimed marks characters of a word the recognizer left without timestamps.
// They carry a zero-width placeholder at the last known time.
type Untimed struct {
	Word   int
	Text   string
	Reason string
}

func (Forward) provenance()              {}
func (LeadingGap) provenance()           {}
func (MissingWord) provenance()          {}
func (HallucinationOverlap) provenance() {}
func (Untimed) provenance()              {}

func (p Forward) String() string              { return fmt.Sprintf("forward(word=%d)", p.Word) }
func (p LeadingGap) String() string           { return "leading-gap" }
func (p MissingWord) String() string          { return "missing-word" }
func (p HallucinationOverlap) String() string { return "hallucination-overlap" }
func (p Untimed) String() string              { return "error: " + p.Reason }

// Tag returns the short provenance code used in diagnostics.
func Tag(p Provenance) string {
	switch p.(type) {
	case Forward:
		return "forward"
	case LeadingGap:
		return "leading-gap"
	case MissingWord:
		return "missing-word"
	case HallucinationOverlap:
		return "hallucination-overlap"
	case Untimed:
		return "error"
	default:
		return ""
	}
}
