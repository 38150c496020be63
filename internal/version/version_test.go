package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored_NoColor(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "1.2.3-rc1"
	if got := Colored(); got != "1.2.3-rc1" {
		t.Errorf("Colored() = %q", got)
	}
	Version = "dev"
	if got := Colored(); got != "dev" {
		t.Errorf("malformed version must pass through, got %q", got)
	}
}

func TestSummary(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := Summary(""); got != "scriptgate 1.2.3" {
		t.Errorf("Summary = %q", got)
	}

	GitCommit, BuildDate = "abc123", "2026-10-01"
	want := "scriptgate 1.2.3 (abc123, 2026-10-01), rules 2026.10"
	if got := Summary("2026.10"); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}
