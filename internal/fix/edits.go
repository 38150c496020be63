package fix

import (
	"errors"
	"fmt"
	"sort"

	"scriptgate/internal/source"
)

// ErrConflict is returned when two edits touch the same bytes.
var ErrConflict = errors.New("conflicting edits")

// ErrStale is returned when the text under an edit no longer matches its guard.
var ErrStale = errors.New("edit guard does not match script text")

// TextEdit replaces the bytes under Span with NewText.
// OldText, when set, must equal the replaced bytes.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// InsertText creates an insertion edit at offset at.
func InsertText(at uint32, text string) TextEdit {
	return TextEdit{
		Span:    source.Span{Start: at, End: at},
		NewText: text,
	}
}

// applyEdits applies edits to content back to front so earlier offsets stay valid.
func applyEdits(content []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start > sorted[j].Span.Start
		}
		return sorted[i].Span.End > sorted[j].Span.End
	})

	out := append([]byte(nil), content...)
	for i, e := range sorted {
		if int(e.Span.End) > len(content) || e.Span.Start > e.Span.End {
			return nil, fmt.Errorf("fix: edit %s out of range (len %d)", e.Span, len(content))
		}
		if i > 0 && spansConflict(sorted[i-1], e) {
			return nil, fmt.Errorf("fix: %w at %s", ErrConflict, e.Span)
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return nil, fmt.Errorf("fix: %w at %s", ErrStale, e.Span)
		}
		tail := append([]byte(e.NewText), out[e.Span.End:]...)
		out = append(out[:e.Span.Start], tail...)
	}
	return out, nil
}

// spansConflict reports whether two text edits' spans overlap.
// Two zero-length edits never conflict; a zero-length edit conflicts with a
// non-empty span that strictly contains its position.
func spansConflict(a, b TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
