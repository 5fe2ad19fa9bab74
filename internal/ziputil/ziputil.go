// Package ziputil is the container codec boundary: it opens existing zip
// archives for member enumeration and writes new archives entry by entry.
// Callers above this package never touch archive/zip directly.
//
// Output conventions:
//   - Deterministic bytes (fixed timestamps, fixed modes)
//   - Safe entry paths (forward slashes, no drive, no traversal)
//   - Deflate via github.com/klauspost/compress/flate
package ziputil

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
)

// FixedZipTime ensures byte-for-byte reproducible archives (1980-01-01 UTC).
var FixedZipTime = time.Unix(315532800, 0).UTC()

// SanitizePath normalizes zip entry paths (forward slashes, no drive, no
// leading '/'), and removes '.' and '..' segments without escaping the root.
func SanitizePath(p string) string {
	s := strings.ReplaceAll(p, "\\", "/")
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "/")
	parts := strings.Split(s, "/")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, part)
	}
	s = strings.Join(stack, "/")
	if s == "" {
		return "entry"
	}
	return s
}

// Member describes one named object inside an existing archive. Bytes are
// pulled lazily through Open; the owning Reader must stay open until then.
type Member struct {
	Name string
	Dir  bool

	file *zip.File
}

// Open returns a fresh reader over the member's bytes.
func (m Member) Open() (io.ReadCloser, error) {
	if m.file == nil {
		return nil, fmt.Errorf("ziputil: member %s has no backing file", m.Name)
	}
	return m.file.Open()
}

// Reader provides member enumeration over an existing archive on disk.
type Reader struct {
	path string
	f    *os.File
	zr   *zip.Reader
}

// Open opens the archive at path for member enumeration.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	zr, err := zip.NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Reader{path: path, f: f, zr: zr}, nil
}

// Members returns the archive's members in central-directory order.
func (r *Reader) Members() []Member {
	members := make([]Member, 0, len(r.zr.File))
	for _, zf := range r.zr.File {
		members = append(members, Member{
			Name: zf.Name,
			Dir:  strings.HasSuffix(zf.Name, "/") || zf.FileInfo().IsDir(),
			file: zf,
		})
	}
	return members
}

// Path returns the filesystem path the reader was opened from.
func (r *Reader) Path() string { return r.path }

func (r *Reader) Close() error { return r.f.Close() }

// Writer appends named entries to a new archive. Entry bytes are streamed;
// nothing is buffered beyond the compressor's window.
type Writer struct {
	zw *zip.Writer
}

// NewWriter wraps w in an archive writer using klauspost's deflate, a drop-in
// for the stdlib compressor.
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &Writer{zw: zw}
}

// WriteEntry streams r into a file entry at name.
func (w *Writer) WriteEntry(name string, r io.Reader) error {
	h := &zip.FileHeader{Name: SanitizePath(name), Method: zip.Deflate}
	h.SetMode(0o644)
	h.Modified = FixedZipTime
	ew, err := w.zw.CreateHeader(h)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(ew, r); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// WriteDir appends a directory marker record at name. The trailing slash is
// added if missing; directory records carry no bytes.
func (w *Writer) WriteDir(name string) error {
	s := SanitizePath(name)
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	h := &zip.FileHeader{Name: s, Method: zip.Store}
	h.SetMode(os.ModeDir | 0o755)
	h.Modified = FixedZipTime
	if _, err := w.zw.CreateHeader(h); err != nil {
		return fmt.Errorf("create %s: %w", s, err)
	}
	return nil
}

// Close flushes the central directory. It does not close the underlying writer.
func (w *Writer) Close() error { return w.zw.Close() }
