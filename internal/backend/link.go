package backend

import (
	"fmt"
	"os"
	"path/filepath"
)

// Linker places archives shipped under Source into the generated home so
// the web application loads them at startup.
type Linker struct {
	Source       string // e.g. /opt/guacamole
	LibDir       string // <home>/lib
	ExtensionDir string // <home>/extensions
}

// NewLinker returns a Linker targeting the lib and extensions directories
// of home.
func NewLinker(source, home string) *Linker {
	return &Linker{
		Source:       source,
		LibDir:       filepath.Join(home, "lib"),
		ExtensionDir: filepath.Join(home, "extensions"),
	}
}

// Link symlinks every archive matching rule into its target directory and
// returns the created link paths.  A pattern matching nothing is an error.
func (l *Linker) Link(rule LinkRule) ([]string, error) {
	pattern := filepath.Join(l.Source, rule.Pattern)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no archive matches %s", pattern)
	}

	dir := l.LibDir
	if rule.Target == ExtensionDir {
		dir = l.ExtensionDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	links := make([]string, 0, len(matches))
	for _, m := range matches {
		dst := filepath.Join(dir, filepath.Base(m))
		if err := os.Symlink(m, dst); err != nil {
			return links, fmt.Errorf("link %s: %w", m, err)
		}
		links = append(links, dst)
	}
	return links, nil
}
