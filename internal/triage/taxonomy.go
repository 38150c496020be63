package triage

import (
	"fmt"
	"strings"
)

const stateless = "Each execution is a fresh, independent environment: files, variables and imports " +
	"from earlier executions do not exist."

// taxonomy is ordered; first match wins.
var taxonomy = []rule{
	{
		category: NameLookup,
		match:    submatch(`NameError: (?:global )?name '(\w+)' is not defined`),
		hint: func(c *Classifier, a *Analysis) string {
			if stmt, ok := c.rules.KnownImport(a.Subject); ok {
				a.Import = stmt
				return fmt.Sprintf("'%s' is used without being imported. Add '%s' at the top of the script.", a.Subject, stmt)
			}
			return fmt.Sprintf("'%s' is not defined in this script. %s Define or import it here.", a.Subject, stateless)
		},
	},
	{
		category: ModuleNotFound,
		match:    submatch(`ModuleNotFoundError: No module named '([\w.]+)'`),
		hint: func(c *Classifier, a *Analysis) string {
			if i := strings.IndexByte(a.Subject, '.'); i > 0 {
				a.Subject = a.Subject[:i]
			}
			if alt, ok := c.rules.Risky(a.Subject); ok {
				return fmt.Sprintf("module '%s' is not installed in the sandbox. Use %s from the standard library instead.", a.Subject, alt)
			}
			return fmt.Sprintf("module '%s' is not installed in the sandbox and cannot be installed. "+
				"Use the standard library or a preinstalled package.", a.Subject)
		},
	},
	{
		category: ImportFailure,
		match:    submatch(`ImportError: (?:cannot import name '(\w+)'|(.+))`),
		hint: func(_ *Classifier, a *Analysis) string {
			return fmt.Sprintf("the import of '%s' failed. Check the name exists in the installed version "+
				"of the package, or import the module and access the attribute from it.", a.Subject)
		},
	},
	{
		category: TypeMismatch,
		match:    submatch(`TypeError: (.+)`),
		hint: func(_ *Classifier, a *Analysis) string {
			return fmt.Sprintf("a value has the wrong type (%s). Check argument types and convert "+
				"explicitly (int(), str(), float()) before combining values.", a.Subject)
		},
	},
	{
		category: MissingKey,
		match:    submatch(`KeyError: (.+)`),
		hint: func(_ *Classifier, a *Analysis) string {
			return fmt.Sprintf("key %s is missing. Print the available keys first, or use .get() with a default.", a.Subject)
		},
	},
	{
		category: IndexOutOfRange,
		match:    submatch(`IndexError: (.+)`),
		hint: func(_ *Classifier, a *Analysis) string {
			return fmt.Sprintf("an index is out of range (%s). Check the length before indexing; the data may be empty.", a.Subject)
		},
	},
	{
		category: MissingAttribute,
		match:    submatch(`AttributeError: (?:'\w+' object|module '[\w.]+'|type object '\w+') has no attribute '(\w+)'|AttributeError: (.+)`),
		hint: func(_ *Classifier, a *Analysis) string {
			return fmt.Sprintf("attribute '%s' does not exist on that object. Check the object's type and "+
				"the API of the installed library version.", a.Subject)
		},
	},
	{
		category: MissingFile,
		match:    submatch(`(?:FileNotFoundError|IsADirectoryError|NotADirectoryError)[^\n]*?(?:: '([^']+)'|$)|No such file or directory(?:: '([^']+)')?`),
		hint: func(_ *Classifier, a *Analysis) string {
			if a.Subject != "" {
				return fmt.Sprintf("file '%s' does not exist. %s Create or download the file in this script, "+
					"or list the directory to find the right path.", a.Subject, stateless)
			}
			return "a file does not exist. " + stateless + " Create or download the file in this script first."
		},
	},
	{
		category: MalformedData,
		match: submatch(`(JSONDecodeError|UnicodeDecodeError|ParserError|csv\.Error|yaml\.\w+Error|` +
			`ValueError: (?:could not convert|invalid literal)[^\n]*)`),
		hint: func(_ *Classifier, a *Analysis) string {
			return fmt.Sprintf("the input data is not in the expected format (%s). Print a sample of the raw "+
				"input before parsing it and handle empty or partial content.", a.Subject)
		},
	},
	{
		category: Timeout,
		match:    submatch(`(timed out|TimeoutError|deadline exceeded|Timeout)`),
		hint: func(*Classifier, *Analysis) string {
			return "the execution exceeded its time limit. Process less data, add limits to loops and " +
				"network calls, or raise the timeout (maximum 300 seconds)."
		},
	},
	{
		category: RuntimeSyntax,
		match:    submatch(`(?:SyntaxError|IndentationError|TabError): (.+)|(SyntaxError|IndentationError|TabError)`),
		hint: func(_ *Classifier, a *Analysis) string {
			return fmt.Sprintf("the interpreter rejected the code (%s). Fix the syntax; code built at runtime "+
				"(eval, exec, generated files) is not checked before execution.", a.Subject)
		},
	},
}

func genericHint(_ *Classifier, a *Analysis) string {
	return "the script failed. Read the error above, fix the cause and run again. " + stateless
}
