// Package scope performs the conservative module-level name analysis of a
// parsed script.
//
// Only module scope is modelled. Function and class bodies are opaque: their
// signatures, decorators, defaults and bases are visited at module scope, but
// their statements are not (except for a shallow scan of `global` declarations,
// which bind module names). Comprehensions and lambdas get a transient scope
// that is dropped once the construct has been analysed.
//
// The analysis prefers missing a real undefined name to rejecting a valid
// script.
package scope
