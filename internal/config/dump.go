package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"scriptgate/internal/rules"
)

// WriteRules encodes the effective tables of rs as a [rules] section that
// Load accepts back.
func WriteRules(w io.Writer, rs *rules.Set) error {
	if _, err := fmt.Fprintf(w, "# rules version %s\n", rs.Version()); err != nil {
		return err
	}
	out := struct {
		Rules RulesConfig `toml:"rules"`
	}{
		Rules: RulesConfig{
			ImplicitNames: rs.ImplicitNames(),
			KnownImports:  rs.KnownImports(),
			CommonModules: ModuleList{Names: rs.CommonModules()},
			RiskyModules:  rs.RiskyModules(),
		},
	}
	return toml.NewEncoder(w).Encode(out)
}
