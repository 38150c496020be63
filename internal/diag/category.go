package diag

// Category groups issues by the pass that produced them.
// The numeric order is the reporting order.
type Category uint8

const (
	CatSyntax Category = iota
	CatScope
	CatImport
)

func (c Category) String() string {
	switch c {
	case CatSyntax:
		return "syntax"
	case CatScope:
		return "scope"
	case CatImport:
		return "import"
	}
	return "unknown"
}
