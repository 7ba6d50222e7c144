package subtitle

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural marks a paragraph span that could not be resolved.
	ErrStructural = errors.New("paragraph span unresolved")
	// ErrParagraphCount marks a translation not parallel to the source.
	ErrParagraphCount = errors.New("paragraph count mismatch")
	// ErrCueCount marks a retime between files with different cue counts.
	ErrCueCount = errors.New("cue count mismatch")
	// ErrMalformed marks unparseable SRT input.
	ErrMalformed = errors.New("malformed srt")
)

// StructuralError names the paragraph whose span failed.
type StructuralError struct {
	Paragraph int
	First     int
	Last      int
	Err       error
}

func (e *StructuralError) Error() string {
	msg := fmt.Sprintf("paragraph %d (source %d..%d)", e.Paragraph, e.First, e.Last)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStructural}
	}
	return []error{ErrStructural, e.Err}
}

// ParagraphCountError reports a translation whose paragraphs do not line up
// with the source.
type ParagraphCountError struct {
	Translation string
	Got         int
	Want        int
}

func (e *ParagraphCountError) Error() string {
	return fmt.Sprintf("translation %q has %d paragraphs, source has %d", e.Translation, e.Got, e.Want)
}

func (e *ParagraphCountError) Unwrap() error { return ErrParagraphCount }

// ParseError locates a malformed SRT block.
type ParseError struct {
	Block  int
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("block %d (line %d): %s", e.Block, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }
