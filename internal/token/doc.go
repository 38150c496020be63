// Package token defines lexical token kinds for Python scripts.
// Invariants:
//   - Token.Text is the exact source text of the token (empty for NEWLINE at EOF,
//     INDENT, DEDENT and EOF).
//   - Layout is explicit: the lexer emits Newline, Indent and Dedent tokens, so the
//     parser never looks at whitespace.
//   - Soft keywords (match, case, type, _) are identifiers; the parser decides
//     from context.
//   - String and f-string literals are single tokens including prefix and quotes.
package token
