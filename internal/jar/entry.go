package jar

import (
	"bytes"
	"io"
	"os"
)

// Opener produces a fresh reader over some bytes. Entry contents are pulled
// lazily through an Opener at write time; each Open call must return an
// independent reader positioned at the start.
type Opener interface {
	Open() (io.ReadCloser, error)
}

// FileOpener opens the file at Path.
type FileOpener struct {
	Path string
}

func (o FileOpener) Open() (io.ReadCloser, error) { return os.Open(o.Path) }

// BytesOpener returns an Opener over a fixed byte slice.
func BytesOpener(data []byte) Opener { return bytesOpener{data: data} }

type bytesOpener struct {
	data []byte
}

func (o bytesOpener) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(o.data)), nil
}

// namedOpener couples an Opener with the source it came from and the member
// name inside that source, so failures can name their origin.
type namedOpener struct {
	source Source
	name   string
	opener Opener
}

func (n namedOpener) identify() string { return n.source.Identify(n.name) }

// Entry is one named binary object destined for the archive: where its bytes
// come from, what the member was called there, and the path it lands at.
// Entries are immutable once constructed and carry no bytes themselves.
type Entry interface {
	// Source returns the origin of the entry's bytes.
	Source() Source

	// Name returns the name of the entry within its source.
	Name() string

	// JarPath returns the destination path inside the archive, always with
	// forward slashes.
	JarPath() string
}

type readableEntry struct {
	contents namedOpener
	path     string
}

func (e *readableEntry) Source() Source  { return e.contents.source }
func (e *readableEntry) Name() string    { return e.contents.name }
func (e *readableEntry) JarPath() string { return e.path }

func (e *readableEntry) open() (io.ReadCloser, error) { return e.contents.opener.Open() }

// concatOpener streams the ordered concatenation of several openers. Each
// underlying reader is opened only when the previous one is exhausted, so the
// combined result is never buffered.
type concatOpener struct {
	openers []Opener
}

func (c concatOpener) Open() (io.ReadCloser, error) {
	remaining := make([]Opener, len(c.openers))
	copy(remaining, c.openers)
	return &concatReader{remaining: remaining}, nil
}

type concatReader struct {
	remaining []Opener
	cur       io.ReadCloser
}

func (r *concatReader) Read(p []byte) (int, error) {
	for {
		if r.cur == nil {
			if len(r.remaining) == 0 {
				return 0, io.EOF
			}
			rc, err := r.remaining[0].Open()
			if err != nil {
				return 0, err
			}
			r.remaining = r.remaining[1:]
			r.cur = rc
		}
		n, err := r.cur.Read(p)
		if err == io.EOF {
			cerr := r.cur.Close()
			r.cur = nil
			if cerr != nil {
				return n, cerr
			}
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (r *concatReader) Close() error {
	r.remaining = nil
	if r.cur == nil {
		return nil
	}
	err := r.cur.Close()
	r.cur = nil
	return err
}
