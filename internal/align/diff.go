package align

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// OpKind classifies an edit-script operation relative to transforming
// recognized text into source text.
type OpKind int8

const (
	// OpEqual text appears in both.
	OpEqual OpKind = iota
	// OpInsert text appears only in the source.
	OpInsert
	// OpDelete text appears only in the recognized text.
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// EditOp is one run of the edit script.
type EditOp struct {
	Kind    OpKind
	Content string
}

// Diff computes a character-level edit script from recognized to source. It
// runs to completion regardless of input size and applies semantic cleanup so
// edits do not split meaningless single characters.
func Diff(recognized, source string) []EditOp {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes([]rune(recognized), []rune(source), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	ops := make([]EditOp, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var kind OpKind
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = OpInsert
		case diffmatchpatch.DiffDelete:
			kind = OpDelete
		default:
			kind = OpEqual
		}
		if n := len(ops); n > 0 && ops[n-1].Kind == kind {
			ops[n-1].Content += d.Text
			continue
		}
		ops = append(ops, EditOp{Kind: kind, Content: d.Text})
	}
	return ops
}

// SourceText concatenates every non-Delete op.
func SourceText(ops []EditOp) string {
	return joinOps(ops, OpDelete)
}

// RecognizedText concatenates every non-Insert op.
func RecognizedText(ops []EditOp) string {
	return joinOps(ops, OpInsert)
}

func joinOps(ops []EditOp, skip OpKind) string {
	var b strings.Builder
	for _, op := range ops {
		if op.Kind == skip {
			continue
		}
		b.WriteString(op.Content)
	}
	return b.String()
}
