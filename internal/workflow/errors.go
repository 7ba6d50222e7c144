package workflow

import (
	"errors"
	"fmt"
	"strings"

	"scriptsync/internal/align"
	"scriptsync/internal/subtitle"
)

var (
	// ErrInput marks a request whose files cannot be loaded or are empty.
	ErrInput = errors.New("input error")
	// ErrConfiguration marks settings that make the request unrunnable.
	ErrConfiguration = errors.New("configuration error")
	// ErrAlignment marks an invariant failure inside the alignment core.
	ErrAlignment = errors.New("alignment error")
	// ErrEmission marks a failure while projecting or rendering tracks.
	ErrEmission = errors.New("emission error")
	// ErrOutput marks a failure while writing artifacts.
	ErrOutput = errors.New("output error")
)

// wrap tags err with marker and prefixes the stage and operation so the
// message reads "marker: stage: operation: message: cause".
func wrap(marker error, stage, operation, message string, err error) error {
	parts := make([]string, 0, 3)
	for _, p := range []string{stage, operation, message} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "workflow failure"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorKind classifies err for the run ledger and CLI summaries. It returns
// the most specific taxonomy name that matches.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, align.ErrLengthMismatch):
		return "length_invariant"
	case errors.Is(err, align.ErrIncompleteTiming):
		return "incomplete_timing"
	case errors.Is(err, subtitle.ErrStructural):
		return "structural_mismatch"
	case errors.Is(err, subtitle.ErrParagraphCount):
		return "paragraph_count"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrInput), errors.Is(err, align.ErrInput):
		return "input"
	case errors.Is(err, ErrOutput):
		return "output"
	case errors.Is(err, ErrEmission):
		return "emission"
	case errors.Is(err, ErrAlignment):
		return "alignment"
	default:
		return "unknown"
	}
}
