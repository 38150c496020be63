package diag

import (
	"fmt"
	"sort"

	"scriptgate/internal/source"
)

type Bag struct {
	items []Issue
	max   int
}

// NewBag creates a bag; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 || capacity > 64 {
		capacity = 8
	}
	return &Bag{
		items: make([]Issue, 0, capacity),
		max:   max,
	}
}

// Add добавляет issue, учитывая лимит.
// Возвращает false, если issue не добавлен (достигнут лимит).
func (b *Bag) Add(d Issue) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors возвращает true, если есть хотя бы один issue с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы один issue с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// HasBlocking reports whether any error cannot be resolved by the import rewrite.
func (b *Bag) HasBlocking() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError && !b.items[i].AutoFixable {
			return true
		}
	}
	return false
}

// HasFixable reports whether at least one issue is auto-fixable.
func (b *Bag) HasFixable() bool {
	for i := range b.items {
		if b.items[i].AutoFixable {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Issue {
	return b.items
}

// Snapshot returns a copy safe to hand out of the pass.
func (b *Bag) Snapshot() []Issue {
	out := make([]Issue, len(b.items))
	copy(out, b.items)
	return out
}

// Merge объединяет issue из другого Bag, игнорируя лимит.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Sort orders issues by category (syntax, scope, import), then by position,
// then severity (desc) and code.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if ci, cj := di.Category(), dj.Category(); ci != cj {
			return ci < cj
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Subject+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	out := make([]Issue, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), d.Subject, d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	b.items = out
}

// Resolve fills Line/Column of every issue from its span.
func (b *Bag) Resolve(f *source.File) {
	if f == nil {
		return
	}
	for i := range b.items {
		if b.items[i].Line != 0 {
			continue
		}
		pos := f.Position(b.items[i].Primary.Start)
		b.items[i].Line = pos.Line
		b.items[i].Column = pos.Col
	}
}
