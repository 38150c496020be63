package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptgate/internal/rules"
)

func traceback(last string) string {
	return "Traceback (most recent call last):\n" +
		"  File \"/tmp/scriptgate-1.py\", line 1, in <module>\n" +
		"  File \"/tmp/scriptgate-1.py\", line 4, in <module>\n" +
		last + "\n"
}

func TestClassifyTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category Category
		subject  string
	}{
		{"known name", traceback("NameError: name 'pd' is not defined"), NameLookup, "pd"},
		{"unknown name", traceback("NameError: name 'results' is not defined. Did you mean: 'result'?"), NameLookup, "results"},
		{"module", traceback("ModuleNotFoundError: No module named 'torch.nn'"), ModuleNotFound, "torch"},
		{"import", traceback("ImportError: cannot import name 'Foo' from 'bar' (/x/bar.py)"), ImportFailure, "Foo"},
		{"type", traceback("TypeError: can only concatenate str (not \"int\") to str"), TypeMismatch, "can only concatenate str (not \"int\") to str"},
		{"key", traceback("KeyError: 'price'"), MissingKey, "'price'"},
		{"index", traceback("IndexError: list index out of range"), IndexOutOfRange, "list index out of range"},
		{"attribute", traceback("AttributeError: 'NoneType' object has no attribute 'group'"), MissingAttribute, "group"},
		{"module attribute", traceback("AttributeError: module 'json' has no attribute 'parse'"), MissingAttribute, "parse"},
		{"file", traceback("FileNotFoundError: [Errno 2] No such file or directory: 'data.csv'"), MissingFile, "data.csv"},
		{"json", traceback("json.decoder.JSONDecodeError: Expecting value: line 1 column 1 (char 0)"), MalformedData, "JSONDecodeError"},
		{"int parse", traceback("ValueError: invalid literal for int() with base 10: 'abc'"), MalformedData, "ValueError: invalid literal for int() with base 10: 'abc'"},
		{"sandbox timeout", "execution timed out after 1m0s", Timeout, "timed out"},
		{"python timeout", traceback("TimeoutError: [Errno 110] Connection timed out"), Timeout, "TimeoutError"},
		{"syntax", "  File \"/tmp/x.py\", line 2\n    exec('x = (')\nSyntaxError: '(' was never closed", RuntimeSyntax, "'(' was never closed"},
		{"generic", traceback("ZeroDivisionError: division by zero"), Generic, ""},
		{"empty", "", Generic, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Classify(tt.text)
			assert.Equal(t, tt.category, a.Category)
			assert.Equal(t, tt.subject, a.Subject)
			assert.NotEmpty(t, a.Hint)
		})
	}
}

func TestFinalExceptionWins(t *testing.T) {
	text := traceback("KeyError: 'a'") +
		"\nDuring handling of the above exception, another exception occurred:\n\n" +
		traceback("NameError: name 'np' is not defined")
	a := Classify(text)
	assert.Equal(t, NameLookup, a.Category)
	assert.Equal(t, "np", a.Subject)
}

func TestNameLookupHints(t *testing.T) {
	a := Classify(traceback("NameError: name 'json' is not defined"))
	require.True(t, a.Retriable())
	assert.Equal(t, "import json", a.Import)
	assert.Contains(t, a.Hint, "import json")
	assert.Equal(t, 4, a.Line)

	a = Classify(traceback("NameError: name 'previous_df' is not defined"))
	assert.False(t, a.Retriable())
	assert.Contains(t, a.Hint, "fresh, independent environment")
}

func TestRiskyModuleHint(t *testing.T) {
	a := Classify(traceback("ModuleNotFoundError: No module named 'flask'"))
	assert.Contains(t, a.Hint, "http.server")
	assert.False(t, a.Retriable())
}

func TestMissingFileRestatesStatelessness(t *testing.T) {
	a := Classify(traceback("FileNotFoundError: [Errno 2] No such file or directory: 'out.json'"))
	assert.Contains(t, a.Hint, "fresh, independent environment")
}

func TestCustomTables(t *testing.T) {
	rs := rules.Merge(rules.Default(), rules.Overrides{KnownImports: map[string]string{"tab": "import tabulate as tab"}})
	a := New(rs).Classify("NameError: name 'tab' is not defined")
	assert.Equal(t, "import tabulate as tab", a.Import)
}

func TestString(t *testing.T) {
	a := Analysis{Category: MissingKey, Hint: "h", Line: 3}
	assert.Equal(t, "[key_error] line 3: h", a.String())
	a.Line = 0
	assert.Equal(t, "[key_error] h", a.String())
}
