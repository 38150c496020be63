// Package diag defines the issue model shared by every validation pass.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, parser, scope analysis and import checker.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     issues without coupling to storage or formatting.
//
// Package diag does no IO and no formatting beyond the one-line short form.
// Rendering lives in internal/diagfmt; the import rewrite that consumes
// auto-fixable issues lives in internal/fix.
//
// # Data model
//
// Issue is the central record:
//
//   - Severity: Info, Warning or Error. Validation only produces the last two.
//   - Code: compact numeric identifier (codes.go). The code range decides the
//     Category: LEX/SYN are syntax, SCP is scope, IMP is import.
//   - Message: short, actionable text.
//   - Primary: byte span in the script; Line/Column are filled by Bag.Resolve.
//   - Subject: the undefined name or module the issue is about.
//   - Hint: remediation text shown to the caller.
//   - AutoFixable: set only for undefined names present in the known-import table.
//
// A syntax issue is always an error and is always the only issue of its pass.
package diag
