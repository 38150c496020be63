// Package triage classifies runtime failure text into a fixed taxonomy and
// writes a hint for each class. Rules are tried in order; the generic
// rule always matches last.
package triage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"scriptgate/internal/rules"
)

// Category is a runtime failure class.
type Category string

const (
	NameLookup       Category = "name_error"
	ModuleNotFound   Category = "module_not_found"
	ImportFailure    Category = "import_error"
	TypeMismatch     Category = "type_error"
	MissingKey       Category = "key_error"
	IndexOutOfRange  Category = "index_error"
	MissingAttribute Category = "attribute_error"
	MissingFile      Category = "file_not_found"
	MalformedData    Category = "malformed_data"
	Timeout          Category = "timeout"
	RuntimeSyntax    Category = "syntax_error"
	Generic          Category = "runtime_error"
)

// Analysis is the classified failure.
type Analysis struct {
	Category Category
	// Subject is what the failure is about: a name, module, key, attribute or path.
	Subject string
	Hint    string
	// Import is the known import statement for a NameLookup subject, if any.
	Import string
	// Line is the last script line named by the traceback, 0 if none.
	Line int
}

// Retriable reports whether injecting Import could fix the failure.
func (a Analysis) Retriable() bool {
	return a.Category == NameLookup && a.Import != ""
}

func (a Analysis) String() string {
	if a.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s", a.Category, a.Line, a.Hint)
	}
	return fmt.Sprintf("[%s] %s", a.Category, a.Hint)
}

// match extracts a subject from the failure text.
type match func(text string) (subject string, ok bool)

type rule struct {
	category Category
	match    match
	hint     func(c *Classifier, a *Analysis) string
}

// Classifier holds the ordered rule list. It is immutable and safe for concurrent use.
type Classifier struct {
	rules *rules.Set
	table []rule
}

// New builds a classifier over rs (nil: defaults).
func New(rs *rules.Set) *Classifier {
	if rs == nil {
		rs = rules.Default()
	}
	return &Classifier{rules: rs, table: taxonomy}
}

var defaultClassifier = New(nil)

// Classify classifies with the default tables.
func Classify(text string) Analysis {
	return defaultClassifier.Classify(text)
}

// Classify matches the final exception line first, then the whole text.
func (c *Classifier) Classify(text string) Analysis {
	line := lastTracebackLine(text)
	for _, focus := range []string{finalException(text), text} {
		if focus == "" {
			continue
		}
		for _, r := range c.table {
			subject, ok := r.match(focus)
			if !ok {
				continue
			}
			a := Analysis{Category: r.category, Subject: subject, Line: line}
			a.Hint = r.hint(c, &a)
			return a
		}
	}
	a := Analysis{Category: Generic, Line: line}
	a.Hint = genericHint(c, &a)
	return a
}

var (
	exceptionLine = regexp.MustCompile(`^(?:[A-Za-z_][\w.]*\.)?[A-Z]\w*(?:Error|Exception|Exit|Interrupt|Warning)\b`)
	tracebackLine = regexp.MustCompile(`File "[^"]*", line (\d+)`)
)

// finalException returns the last line that looks like "SomeError: message".
func finalException(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if exceptionLine.MatchString(l) {
			return l
		}
	}
	return ""
}

func lastTracebackLine(text string) int {
	all := tracebackLine.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return 0
	}
	n, err := strconv.Atoi(all[len(all)-1][1])
	if err != nil {
		return 0
	}
	return n
}

// submatch builds a matcher returning the first non-empty capture group.
func submatch(expr string) match {
	re := regexp.MustCompile(expr)
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		for _, g := range m[1:] {
			if g != "" {
				return g, true
			}
		}
		return "", true
	}
}
