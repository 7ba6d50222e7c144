package subtitle

import "fmt"

// IssueKind names a validation finding.
type IssueKind string

const (
	IssueEmpty         IssueKind = "empty_subtitle_file"
	IssueInvertedCue   IssueKind = "end_before_start"
	IssueOverlap       IssueKind = "overlapping_cues"
	IssueOutOfOrder    IssueKind = "non_monotonic_start"
	IssueSequenceGap   IssueKind = "sequence_gap"
	IssueEmptyCueText  IssueKind = "empty_cue_text"
	IssueMalformedFile IssueKind = "malformed_file"
)

// Issue is one validation finding. Seq is 0 for file-level issues.
type Issue struct {
	Kind   IssueKind
	Seq    int
	Detail string
}

func (i Issue) String() string {
	if i.Seq == 0 {
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s: cue %d: %s", i.Kind, i.Seq, i.Detail)
}

// Validate checks entries for the problems alignment must never produce:
// inverted cues, overlaps, out-of-order starts, and sequence gaps. An empty
// result means the track passed.
func Validate(entries []Entry) []Issue {
	if len(entries) == 0 {
		return []Issue{{Kind: IssueEmpty, Detail: "no cues"}}
	}
	var issues []Issue
	for i, e := range entries {
		if e.End < e.Start {
			issues = append(issues, Issue{Kind: IssueInvertedCue, Seq: e.Seq,
				Detail: fmt.Sprintf("%s --> %s", FormatTimestamp(e.Start), FormatTimestamp(e.End))})
		}
		if e.Text == "" {
			issues = append(issues, Issue{Kind: IssueEmptyCueText, Seq: e.Seq, Detail: "cue has no text"})
		}
		if e.Seq != i+1 {
			issues = append(issues, Issue{Kind: IssueSequenceGap, Seq: e.Seq, Detail: fmt.Sprintf("expected sequence %d", i+1)})
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if e.Start < prev.Start {
			issues = append(issues, Issue{Kind: IssueOutOfOrder, Seq: e.Seq,
				Detail: fmt.Sprintf("starts at %s before cue %d at %s", FormatTimestamp(e.Start), prev.Seq, FormatTimestamp(prev.Start))})
		} else if e.Start < prev.End {
			issues = append(issues, Issue{Kind: IssueOverlap, Seq: e.Seq,
				Detail: fmt.Sprintf("starts at %s before cue %d ends at %s", FormatTimestamp(e.Start), prev.Seq, FormatTimestamp(prev.End))})
		}
	}
	return issues
}
