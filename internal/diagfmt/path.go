package diagfmt

import (
	"path/filepath"
	"strings"

	"scriptgate/internal/source"
)

// displayPath formats a script path for output.
func displayPath(path string, mode PathMode, base string) string {
	if path == "" || path == source.VirtualPath {
		return source.VirtualPath
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if base == "" {
			return path
		}
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}
