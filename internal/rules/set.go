package rules

import (
	"maps"
	"slices"
	"sync"
)

// Version identifies the built-in tables. Bump it whenever a default table
// changes so audit records can tell which tables judged a script.
const Version = "2026.10"

// Set is an immutable view over all lookup tables.
type Set struct {
	version  string
	builtins map[string]struct{}
	implicit map[string]struct{}
	known    map[string]string
	stdlib   map[string]struct{}
	common   map[string]struct{}
	risky    map[string]string
}

// Overrides are user-supplied table changes (see [rules] in scriptgate.toml).
type Overrides struct {
	// ImplicitNames replaces the implicit-name allowlist when non-nil.
	ImplicitNames []string
	KnownImports  map[string]string
	CommonModules []string
	RiskyModules  map[string]string
}

// IsZero reports whether o changes nothing.
func (o Overrides) IsZero() bool {
	return o.ImplicitNames == nil && len(o.KnownImports) == 0 &&
		len(o.CommonModules) == 0 && len(o.RiskyModules) == 0
}

var defaultSet = sync.OnceValue(func() *Set {
	return &Set{
		version:  Version,
		builtins: toSet(pythonBuiltins),
		implicit: toSet(defaultImplicitNames),
		known:    maps.Clone(defaultKnownImports),
		stdlib:   toSet(stdlibModules),
		common:   toSet(defaultCommonModules),
		risky:    maps.Clone(defaultRiskyModules),
	}
})

// Default returns the shared built-in tables.
func Default() *Set {
	return defaultSet()
}

// Merge returns a new Set with o applied on top of base. base is not modified.
func Merge(base *Set, o Overrides) *Set {
	if base == nil {
		base = Default()
	}
	if o.IsZero() {
		return base
	}
	out := &Set{
		version:  base.version + "+local",
		builtins: base.builtins,
		implicit: base.implicit,
		known:    maps.Clone(base.known),
		stdlib:   base.stdlib,
		common:   maps.Clone(base.common),
		risky:    maps.Clone(base.risky),
	}
	if o.ImplicitNames != nil {
		out.implicit = toSet(o.ImplicitNames)
	}
	maps.Copy(out.known, o.KnownImports)
	for _, m := range o.CommonModules {
		out.common[m] = struct{}{}
		delete(out.risky, m)
	}
	maps.Copy(out.risky, o.RiskyModules)
	return out
}

func toSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func (s *Set) Version() string { return s.version }

// IsBuiltin reports whether name is a Python builtin or module dunder.
func (s *Set) IsBuiltin(name string) bool {
	_, ok := s.builtins[name]
	return ok
}

// IsImplicit reports whether name is on the implicit-name allowlist.
func (s *Set) IsImplicit(name string) bool {
	_, ok := s.implicit[name]
	return ok
}

// KnownImport returns the import statement that defines name.
func (s *Set) KnownImport(name string) (string, bool) {
	stmt, ok := s.known[name]
	return stmt, ok
}

// IsStdlib reports whether the top-level module is part of the standard library.
func (s *Set) IsStdlib(module string) bool {
	_, ok := s.stdlib[module]
	return ok
}

// IsCommon reports whether the top-level module is assumed preinstalled.
func (s *Set) IsCommon(module string) bool {
	_, ok := s.common[module]
	return ok
}

// Risky returns the suggested stdlib alternative for a known-risky module.
func (s *Set) Risky(module string) (string, bool) {
	alt, ok := s.risky[module]
	return alt, ok
}

// ImplicitNames returns the allowlist sorted.
func (s *Set) ImplicitNames() []string {
	return slices.Sorted(maps.Keys(s.implicit))
}

// KnownImports returns a copy of the known-name table.
func (s *Set) KnownImports() map[string]string {
	return maps.Clone(s.known)
}

// CommonModules returns the common tier sorted.
func (s *Set) CommonModules() []string {
	return slices.Sorted(maps.Keys(s.common))
}

// RiskyModules returns a copy of the risky tier.
func (s *Set) RiskyModules() map[string]string {
	return maps.Clone(s.risky)
}
