package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows the path as given.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of issues.
type PrettyOpts struct {
	Color    bool
	Context  int8 // строки контекста вокруг основной
	PathMode PathMode
	BaseDir  string // для PathModeRelative
	Width    uint8  // максимальная ширина строки, 0 - не ограничено
	// ShowHints prints the hint and notes under each issue.
	ShowHints bool
}

// JSONOpts configures JSON output of issues.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	RulesVersion   string
	InvocationArgs []string
}
