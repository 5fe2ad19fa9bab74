package jar

// Listener observes the decisions made while writing the target archive. It
// is purely informational; nothing a listener does feeds back into duplicate
// resolution.
type Listener interface {
	// OnSkip is called when entries are being skipped. If original is
	// non-nil it is being retained in preference to the skipped entries;
	// a nil original means the whole group was excluded by a skip pattern.
	OnSkip(original Entry, skipped []Entry)

	// OnReplace is called when original entries are replaced by a
	// subsequently added entry.
	OnReplace(originals []Entry, replacement Entry)

	// OnConcat is called when entries competing for jarPath are being
	// concatenated into one.
	OnConcat(jarPath string, entries []Entry)

	// OnWrite is called for each accepted entry as it is scheduled for the
	// output archive.
	OnWrite(entry Entry)
}

// NopListener ignores all events.
type NopListener struct{}

func (NopListener) OnSkip(Entry, []Entry)    {}
func (NopListener) OnReplace([]Entry, Entry) {}
func (NopListener) OnConcat(string, []Entry) {}
func (NopListener) OnWrite(Entry)            {}

var _ Listener = NopListener{}
