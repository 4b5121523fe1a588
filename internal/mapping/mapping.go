// Package mapping holds the canonical-name to stave-count mapping and its
// flat file representation.
package mapping

// Entry is one canonical name and the stave count recorded for it.
type Entry struct {
	CanonicalName string `yaml:"canonical_name"`
	Count         string `yaml:"count"`
}

// Mapping is keyed by canonical name and iterates in insertion order.
// Setting a key that already exists replaces its count and keeps its position,
// so the last write for a key wins.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty mapping.
func New() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set records count for name. A later Set for the same name wins.
func (m *Mapping) Set(name, count string) {
	if i, ok := m.index[name]; ok {
		m.entries[i].Count = count
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, Entry{CanonicalName: name, Count: count})
}

// Get returns the count recorded for name.
func (m *Mapping) Get(name string) (string, bool) {
	i, ok := m.index[name]
	if !ok {
		return "", false
	}
	return m.entries[i].Count, true
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Mapping) Entries() []Entry {
	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}
