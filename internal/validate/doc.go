// Package validate is the pre-execution gate: it parses a script, runs the
// module-scope name analysis and the import availability check, and offers
// a rewrite that adds imports for known names.
//
// A Validator never returns an error. Every problem, including a crash in
// the parser, becomes an issue in the Result.
package validate
