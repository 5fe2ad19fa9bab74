package jar

import (
	"fmt"
	"path/filepath"
)

// Source identifies the logical origin of an entry's bytes. It exists purely
// for diagnostics: Identify performs no I/O and is only used to build error
// and listener messages.
type Source interface {
	// Name returns a stable label for the origin, e.g. a file path.
	Name() string

	// Identify returns a fully qualified label for a member of this source.
	Identify(name string) string
}

// fileSource labels a single loose file. It can identify nothing but that
// file; asking for any other member is a programmer error.
type fileSource struct {
	path string
}

func (s fileSource) Name() string { return s.path }

func (s fileSource) Identify(name string) string {
	if name != filepath.Base(s.path) && name != s.path {
		panic(fmt.Sprintf("jar: cannot identify any entry name save for %s, got %s", s.path, name))
	}
	return s.path
}

// dirSource labels members of a directory subtree by joining the directory
// path with the member's tree-relative name.
type dirSource struct {
	dir string
}

func (s dirSource) Name() string { return s.dir }

func (s dirSource) Identify(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}

// jarSource labels members of an existing archive as "path!member".
type jarSource struct {
	path string
}

func (s jarSource) Name() string { return s.path }

func (s jarSource) Identify(name string) string {
	return fmt.Sprintf("%s!%s", s.path, name)
}

// memorySource labels in-memory bytes with a synthetic "<memory>" origin.
type memorySource struct{}

func (memorySource) Name() string { return "<memory>" }

func (memorySource) Identify(name string) string { return "<memory>!" + name }
