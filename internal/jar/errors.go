package jar

import "fmt"

// IndexingError reports that an existing archive (the target's own prior
// contents, or one passed to AddJar) could not be opened or enumerated.
type IndexingError struct {
	JarPath string
	Err     error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("problem indexing jar at %s: %v", e.JarPath, e.Err)
}

func (e *IndexingError) Unwrap() error { return e.Err }

// ManifestFormatError reports that a custom manifest override's bytes do not
// parse as a valid manifest. It surfaces at write time, not at registration.
type ManifestFormatError struct {
	Source string
	Err    error
}

func (e *ManifestFormatError) Error() string {
	return fmt.Sprintf("invalid manifest from %s: %v", e.Source, e.Err)
}

func (e *ManifestFormatError) Unwrap() error { return e.Err }

// DuplicateEntryError reports a duplicated destination path whose resolved
// action is ActionFail. Entry references the second-scheduled candidate of
// the group, regardless of group size.
type DuplicateEntryError struct {
	JarPath string
	Entry   Entry
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("detected a duplicate entry for %s", e.JarPath)
}

// CreationError reports an I/O failure while streaming entries into the new
// archive or swapping it onto the target path. The pre-existing target is
// untouched when this is returned.
type CreationError struct {
	Target string
	Err    error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("problem creating jar at %s: %v", e.Target, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }
