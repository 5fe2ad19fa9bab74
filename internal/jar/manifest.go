package jar

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
)

// ManifestPath is the reserved destination path of the archive manifest.
const ManifestPath = "META-INF/MANIFEST.MF"

// Attribute is one manifest name/value pair.
type Attribute struct {
	Name  string
	Value string
}

// Manifest holds the main attribute section of an archive manifest. Attribute
// order is preserved so serialization is deterministic.
type Manifest struct {
	attrs []Attribute
}

// Set adds or updates an attribute, keeping the position of an existing name.
func (m *Manifest) Set(name, value string) {
	for i := range m.attrs {
		if strings.EqualFold(m.attrs[i].Name, name) {
			m.attrs[i].Value = value
			return
		}
	}
	m.attrs = append(m.attrs, Attribute{Name: name, Value: value})
}

// Get returns the value of the named attribute, or "" when absent.
func (m *Manifest) Get(name string) string {
	for _, a := range m.attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value
		}
	}
	return ""
}

// Attributes returns a copy of the main attributes in order.
func (m *Manifest) Attributes() []Attribute {
	out := make([]Attribute, len(m.attrs))
	copy(out, m.attrs)
	return out
}

// Bytes serializes the manifest: one "Name: value" line per attribute with
// CRLF endings and a terminating blank line, the conventional layout for the
// format. Long values are not wrapped; the parser accepts both forms.
func (m *Manifest) Bytes() []byte {
	var buf bytes.Buffer
	for _, a := range m.attrs {
		buf.WriteString(a.Name)
		buf.WriteString(": ")
		buf.WriteString(a.Value)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// ParseManifest reads the main attribute section of manifest bytes. A line
// beginning with a space continues the previous attribute's value. Parsing
// stops at the first blank line; per-entry sections beyond it are ignored.
// Any other malformed line is an error.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}
		if line[0] == ' ' {
			if len(m.attrs) == 0 {
				return Manifest{}, fmt.Errorf("line %d: continuation without a preceding attribute", i+1)
			}
			m.attrs[len(m.attrs)-1].Value += strings.TrimPrefix(line, " ")
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return Manifest{}, fmt.Errorf("line %d: malformed attribute %q", i+1, line)
		}
		m.attrs = append(m.attrs, Attribute{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimPrefix(value, " "),
		})
	}
	return m, nil
}

// DefaultManifest returns the manifest synthesized when neither an override
// nor a prior target manifest exists.
func DefaultManifest() Manifest {
	var m Manifest
	m.Set("Manifest-Version", "1.0")
	m.Set("Created-By", "jar-builder")
	return m
}

// defaultManifestBytes is computed once; the default manifest is shared
// read-only state.
var defaultManifestBytes = sync.OnceValue(func() []byte {
	m := DefaultManifest()
	return m.Bytes()
})
