package jar

import (
	"strings"

	"jar-builder/internal/ziputil"
)

// jarWriter streams entries into the output container, synthesizing one
// directory record per not-yet-seen ancestor prefix. The marker set is scoped
// to a single write and discarded with it.
type jarWriter struct {
	zw   *ziputil.Writer
	dirs map[string]struct{}
}

func newJarWriter(zw *ziputil.Writer) *jarWriter {
	return &jarWriter{zw: zw, dirs: make(map[string]struct{})}
}

func (w *jarWriter) write(jarPath string, contents Opener) error {
	if err := w.ensureParentDirs(jarPath); err != nil {
		return err
	}
	rc, err := contents.Open()
	if err != nil {
		return err
	}
	werr := w.zw.WriteEntry(jarPath, rc)
	cerr := rc.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// ensureParentDirs walks jarPath's ancestry top-down, emitting a directory
// record for each prefix not yet seen in this write.
func (w *jarWriter) ensureParentDirs(jarPath string) error {
	parts := strings.Split(jarPath, "/")
	prefix := ""
	for _, component := range parts[:len(parts)-1] {
		if prefix == "" {
			prefix = component
		} else {
			prefix += "/" + component
		}
		if _, seen := w.dirs[prefix]; seen {
			continue
		}
		w.dirs[prefix] = struct{}{}
		if err := w.zw.WriteDir(prefix); err != nil {
			return err
		}
	}
	return nil
}
