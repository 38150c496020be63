// Package rules holds the static lookup tables used by the validator: Python
// builtins, the implicit-name allowlist, the known-name → import table and the
// import availability tiers.
//
// Tables are built once and never mutated. Overrides from scriptgate.toml are
// applied with Merge, which returns a new Set.
package rules
