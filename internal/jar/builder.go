// Package jar assembles a single archive from loose files, directory
// subtrees, other archives and in-memory buffers, resolving destination-path
// collisions through a caller-supplied duplicate policy.
//
// Usage is schedule-then-write: Add/AddFile/AddJar record deferred additions,
// and Write executes them in scheduling order, reduces every candidate group
// to at most one survivor, and streams the result to a temporary file that is
// atomically renamed onto the target. The target is never left half-written:
// either the swap completes or its prior bytes are untouched.
//
// Key design goals:
//   - Deterministic output (FIFO scheduling, fixed zip timestamps, stable
//     cross-path ordering)
//   - Lazy entry bytes (sources are read during Write, never at scheduling)
//   - Single-shot resource cleanup (every opened archive handle is released
//     exactly once when Write returns)
package jar

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"jar-builder/internal/sortutil"
	"jar-builder/internal/walkwalk"
	"jar-builder/internal/ziputil"
)

// Builder schedules additions against a target archive path and writes them
// out in one shot. It is not safe for concurrent use, and a Builder that has
// written (successfully or not) must be constructed anew for another write.
type Builder struct {
	target    string
	listener  Listener
	cleanup   *closer
	additions []indexerFunc
	manifest  *manifestRef
}

// indexerFunc executes one deferred addition against the candidate index.
type indexerFunc func(idx *entryIndex) error

// entryIndex is the candidate multimap: destination path to entries destined
// for it, in arrival order.
type entryIndex struct {
	groups map[string][]*readableEntry
}

func newEntryIndex() *entryIndex {
	return &entryIndex{groups: make(map[string][]*readableEntry)}
}

func (idx *entryIndex) put(jarPath string, e *readableEntry) {
	idx.groups[jarPath] = append(idx.groups[jarPath], e)
}

// manifestRef is the pending manifest override. validate marks overrides
// supplied as raw bytes, which are only checked for well-formedness at write
// time; a prior target's manifest and pre-parsed Manifest values pass through.
type manifestRef struct {
	opener   Opener
	label    string
	validate bool
}

// NewBuilder creates a Builder that writes scheduled additions to target on
// Write. If target does not exist a new archive is created at its path; if it
// names a non-empty archive, that archive's entries seed the candidate index.
// A nil listener means no notifications.
func NewBuilder(target string, listener Listener) *Builder {
	if listener == nil {
		listener = NopListener{}
	}
	return &Builder{target: target, listener: listener, cleanup: &closer{}}
}

// Close releases any resources still held. It is a defensive backstop:
// normally a no-op, since Write releases its own resources on return.
func (b *Builder) Close() error { return b.cleanup.Close() }

// Add schedules the given contents for the entry at jarPath. Parent directory
// records are synthesized at write time in the spirit of mkdir -p.
func (b *Builder) Add(contents Opener, jarPath string) *Builder {
	b.additions = append(b.additions, func(idx *entryIndex) error {
		idx.put(jarPath, &readableEntry{
			contents: namedOpener{source: memorySource{}, name: jarPath, opener: contents},
			path:     jarPath,
		})
		return nil
	})
	return b
}

// AddFile schedules the file at path for the entry at jarPath. If path names
// a directory, its subtree is scheduled rooted at jarPath, skipping the
// directory's own manifest file if present.
func (b *Builder) AddFile(path, jarPath string) *Builder {
	b.additions = append(b.additions, func(idx *entryIndex) error {
		st, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("add %s: %w", path, err)
		}
		if st.IsDir() {
			return indexDirectory(idx, path, jarPath)
		}
		if jarPath == ManifestPath {
			return fmt.Errorf("a custom manifest entry should be added via the UseCustomManifest methods")
		}
		idx.put(jarPath, &readableEntry{
			contents: namedOpener{
				source: fileSource{path: path},
				name:   filepath.Base(path),
				opener: FileOpener{Path: path},
			},
			path: jarPath,
		})
		return nil
	})
	return b
}

func indexDirectory(idx *entryIndex, dir, jarBasePath string) error {
	dirAbs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("add %s: %w", dir, err)
	}
	files, err := walkwalk.ListFiles(dirAbs)
	if err != nil {
		return fmt.Errorf("add %s: %w", dir, err)
	}
	src := dirSource{dir: dir}
	base := pathComponents(jarBasePath)
	for _, f := range files {
		rel := RelPathComponents(f.AbsPath, dirAbs)
		entryPath := strings.Join(rel, "/")
		if entryPath == ManifestPath {
			continue
		}
		dest := make([]string, 0, len(base)+len(rel))
		dest = append(dest, base...)
		dest = append(dest, rel...)
		idx.put(strings.Join(dest, "/"), &readableEntry{
			contents: namedOpener{
				source: src,
				name:   entryPath,
				opener: FileOpener{Path: f.AbsPath},
			},
			path: strings.Join(dest, "/"),
		})
	}
	return nil
}

// AddJar schedules every non-directory, non-manifest member of the archive at
// path, each at a destination equal to its own member name. The archive stays
// open until the next Write returns, since member bytes are read lazily.
func (b *Builder) AddJar(path string) *Builder {
	b.additions = append(b.additions, func(idx *entryIndex) error {
		r, err := ziputil.Open(path)
		if err != nil {
			return &IndexingError{JarPath: path, Err: err}
		}
		b.cleanup.register(r)
		src := jarSource{path: path}
		for _, m := range r.Members() {
			if m.Dir || m.Name == ManifestPath {
				continue
			}
			idx.put(m.Name, &readableEntry{
				contents: namedOpener{source: src, name: m.Name, opener: m},
				path:     m.Name,
			})
		}
		return nil
	})
	return b
}

// UseCustomManifest registers a parsed manifest for the written archive.
func (b *Builder) UseCustomManifest(m Manifest) *Builder {
	b.manifest = &manifestRef{opener: BytesOpener(m.Bytes()), label: "<manifest>"}
	return b
}

// UseCustomManifestFile registers the manifest file at path. Its contents are
// validated at write time.
func (b *Builder) UseCustomManifestFile(path string) *Builder {
	b.manifest = &manifestRef{opener: FileOpener{Path: path}, label: path, validate: true}
	return b
}

// UseCustomManifestText registers raw manifest text. It is validated at write
// time.
func (b *Builder) UseCustomManifestText(text string) *Builder {
	return b.UseCustomManifestOpener(BytesOpener([]byte(text)), ManifestPath)
}

// UseCustomManifestOpener registers a named byte supplier producing the
// manifest. It is validated at write time.
func (b *Builder) UseCustomManifestOpener(contents Opener, name string) *Builder {
	b.manifest = &manifestRef{
		opener:   contents,
		label:    memorySource{}.Identify(name),
		validate: true,
	}
	return b
}

// Write creates the archive at the target path applying the scheduled
// additions and skipping any duplicate entries found. It returns the target
// path on success.
func (b *Builder) Write() (string, error) {
	return b.WriteWith(Always(ActionSkip))
}

// WriteWith creates the archive at the target path applying the scheduled
// additions per handler. Destination paths matching any skip pattern are
// excluded entirely. It returns the target path on success; on any error the
// pre-existing target, if one existed, is unchanged.
func (b *Builder) WriteWith(handler DuplicateHandler, skipPatterns ...*regexp.Regexp) (_ string, err error) {
	defer func() {
		if cerr := b.cleanup.Close(); cerr != nil && err == nil {
			err = &CreationError{Target: b.target, Err: cerr}
		}
	}()

	idx, err := b.index()
	if err != nil {
		return "", err
	}
	entries, err := b.resolve(idx, handler, skipPatterns)
	if err != nil {
		return "", err
	}
	manifest, err := b.resolveManifest()
	if err != nil {
		return "", err
	}
	if err := b.writeArchive(manifest, entries); err != nil {
		return "", err
	}
	return b.target, nil
}

// index materializes the candidate multimap: the pre-existing target's
// members first (its manifest becoming the baseline when no override is
// registered), then every queued addition in scheduling order.
func (b *Builder) index() (*entryIndex, error) {
	idx := newEntryIndex()
	if st, err := os.Stat(b.target); err == nil && !st.IsDir() && st.Size() > 0 {
		r, err := ziputil.Open(b.target)
		if err != nil {
			return nil, &IndexingError{JarPath: b.target, Err: err}
		}
		b.cleanup.register(r)
		src := jarSource{path: b.target}
		for _, m := range r.Members() {
			switch {
			case m.Name == ManifestPath:
				if b.manifest == nil {
					b.manifest = &manifestRef{opener: m, label: src.Identify(m.Name)}
				}
			case !m.Dir:
				idx.put(m.Name, &readableEntry{
					contents: namedOpener{source: src, name: m.Name, opener: m},
					path:     m.Name,
				})
			}
		}
	}
	for _, addition := range b.additions {
		if err := addition(idx); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// resolve reduces every candidate group to at most one survivor. Groups are
// visited in lexicographic path order; only within-group order carries
// meaning, the cross-path ordering just keeps diagnostics reproducible.
func (b *Builder) resolve(
	idx *entryIndex,
	handler DuplicateHandler,
	skipPatterns []*regexp.Regexp,
) ([]*readableEntry, error) {
	out := make([]*readableEntry, 0, len(idx.groups))
	for _, jarPath := range sortutil.SortedKeys(idx.groups) {
		entry, err := b.processGroup(handler, skipPatterns, jarPath, idx.groups[jarPath])
		if err != nil {
			return nil, err
		}
		if entry != nil {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (b *Builder) processGroup(
	handler DuplicateHandler,
	skipPatterns []*regexp.Regexp,
	jarPath string,
	group []*readableEntry,
) (*readableEntry, error) {
	for _, pattern := range skipPatterns {
		if pattern.MatchString(jarPath) {
			b.listener.OnSkip(nil, asEntries(group))
			return nil, nil
		}
	}

	if len(group) == 1 {
		b.listener.OnWrite(group[0])
		return group[0], nil
	}

	switch action := handler.actionFor(jarPath); action {
	case ActionSkip:
		original := group[0]
		b.listener.OnSkip(original, asEntries(group[1:]))
		return original, nil

	case ActionReplace:
		replacement := group[len(group)-1]
		b.listener.OnReplace(asEntries(group[:len(group)-1]), replacement)
		return replacement, nil

	case ActionConcat:
		openers := make([]Opener, len(group))
		for i, e := range group {
			openers[i] = e.contents.opener
		}
		merged := &readableEntry{
			contents: namedOpener{
				source: memorySource{},
				name:   jarPath,
				opener: concatOpener{openers: openers},
			},
			path: jarPath,
		}
		b.listener.OnConcat(jarPath, asEntries(group))
		return merged, nil

	case ActionFail:
		// The reported offender is the second-scheduled candidate even
		// when the group is larger; retained as documented behavior.
		return nil, &DuplicateEntryError{JarPath: jarPath, Entry: group[1]}

	default:
		return nil, fmt.Errorf("unrecognized duplicate action %v", action)
	}
}

// resolveManifest applies the override chain: explicit override, then the
// prior target's manifest, then the synthesized default.
func (b *Builder) resolveManifest() (Opener, error) {
	if b.manifest == nil {
		return BytesOpener(defaultManifestBytes()), nil
	}
	if !b.manifest.validate {
		return b.manifest.opener, nil
	}
	rc, err := b.manifest.opener.Open()
	if err != nil {
		return nil, &ManifestFormatError{Source: b.manifest.label, Err: err}
	}
	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, &ManifestFormatError{Source: b.manifest.label, Err: err}
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, &ManifestFormatError{Source: b.manifest.label, Err: err}
	}
	return BytesOpener(m.Bytes()), nil
}

// writeArchive streams the manifest and every surviving entry into a
// temporary file beside the target, then renames it into place. The temp file
// lives in the target's directory so the final rename never crosses a
// filesystem boundary.
func (b *Builder) writeArchive(manifest Opener, entries []*readableEntry) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.target), filepath.Base(b.target)+".tmp-*")
	if err != nil {
		return &CreationError{Target: b.target, Err: err}
	}
	tmpPath := tmp.Name()
	zw := ziputil.NewWriter(tmp)
	w := newJarWriter(zw)

	stream := func() error {
		if err := w.write(ManifestPath, manifest); err != nil {
			return err
		}
		for _, e := range entries {
			if err := w.write(e.JarPath(), e.contents.opener); err != nil {
				return fmt.Errorf("%s: %w", e.contents.identify(), err)
			}
		}
		if err := zw.Close(); err != nil {
			return err
		}
		return tmp.Close()
	}
	if err := stream(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &CreationError{Target: b.target, Err: err}
	}

	if err := os.Rename(tmpPath, b.target); err != nil {
		_ = os.Remove(tmpPath)
		return &CreationError{
			Target: b.target,
			Err:    fmt.Errorf("problem moving created jar from %s to %s: %w", tmpPath, b.target, err),
		}
	}
	return nil
}

func asEntries(group []*readableEntry) []Entry {
	out := make([]Entry, len(group))
	for i, e := range group {
		out[i] = e
	}
	return out
}
