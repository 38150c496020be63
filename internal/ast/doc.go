// Package ast holds the syntax tree of a Python script.
//
// The tree mirrors the shape of CPython's ast module closely enough for static
// checks: every name occurrence is a *Name with a Load, Store or Del context,
// and binding sites that are not expressions (imports, except handlers,
// function and class names, match captures) carry plain strings plus a span.
// Nodes are plain structs linked by pointers; a tree is built once per
// validation pass and never mutated afterwards.
package ast
