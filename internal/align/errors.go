package align

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch marks a canonical-length invariant violation.
	ErrLengthMismatch = errors.New("length invariant violated")
	// ErrIncompleteTiming marks a source character left without timestamps.
	ErrIncompleteTiming = errors.New("source character without timing")
	// ErrInput marks unusable pipeline input.
	ErrInput = errors.New("invalid alignment input")
)

// Checkpoint names where a length invariant is verified.
type Checkpoint string

const (
	CheckpointRecognizedText Checkpoint = "recognized-text"
	CheckpointDiffSource     Checkpoint = "diff-source"
	CheckpointDiffRecognized Checkpoint = "diff-recognized"
	CheckpointForward        Checkpoint = "forward-propagation"
	CheckpointLayout         Checkpoint = "paragraph-layout"
)

// LengthError reports two canonical lengths that should agree.
type LengthError struct {
	Checkpoint Checkpoint
	Got        int
	Want       int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s: length %d does not match %d", e.Checkpoint, e.Got, e.Want)
}

func (e *LengthError) Unwrap() error { return ErrLengthMismatch }

// TimingError reports the first merged record that failed the completeness check.
type TimingError struct {
	MergedIndex int
	SourceIndex int
	Char        rune
	Reason      string
}

func (e *TimingError) Error() string {
	return fmt.Sprintf("merged record %d (source %d, %q): %s", e.MergedIndex, e.SourceIndex, e.Char, e.Reason)
}

func (e *TimingError) Unwrap() error { return ErrIncompleteTiming }
