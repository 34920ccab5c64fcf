package header

// entry is one name/value pair in insertion order.
type entry struct {
	name  Name
	value Value
}

// Map is an ordered, multi-valued header collection. Two Append calls for
// the same name are kept as two distinct entries rather than being
// comma-joined: Get returns the first, GetAll returns all of them in
// append order, and the encoder emits one wire line per entry. This is
// the "distinct list entries" convention called out as the chosen
// alternative to comma-joining — both are valid HTTP, this codebase is
// just consistent about which one it uses.
type Map struct {
	entries []entry
}

// NewMap returns an empty header map.
func NewMap() *Map {
	return &Map{}
}

// Append adds name: value as a new entry, keeping any existing values for
// name untouched.
func (m *Map) Append(name Name, value Value) {
	m.entries = append(m.entries, entry{name: name, value: value})
}

// Set replaces all existing values for name with the single value given.
func (m *Map) Set(name Name, value Value) {
	m.Remove(name)
	m.Append(name, value)
}

// Get returns the first value stored for name, and whether it was present.
func (m *Map) Get(name Name) (Value, bool) {
	for _, e := range m.entries {
		if e.name == name {
			return e.value, true
		}
	}
	return "", false
}

// GetAll returns every value stored for name, in append order.
func (m *Map) GetAll(name Name) []Value {
	var out []Value
	for _, e := range m.entries {
		if e.name == name {
			out = append(out, e.value)
		}
	}
	return out
}

// Has reports whether name has at least one value.
func (m *Map) Has(name Name) bool {
	_, ok := m.Get(name)
	return ok
}

// Remove deletes every entry for name.
func (m *Map) Remove(name Name) {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.name != name {
			kept = append(kept, e)
		}
	}
	m.entries = kept
}

// Len returns the total number of entries (not distinct names).
func (m *Map) Len() int {
	return len(m.entries)
}

// VisitAll calls fn once per entry in insertion order, across distinct
// names as well as within a single name. Iteration stops if fn returns
// false.
func (m *Map) VisitAll(fn func(name Name, value Value) bool) {
	for _, e := range m.entries {
		if !fn(e.name, e.value) {
			return
		}
	}
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	c := &Map{entries: make([]entry, len(m.entries))}
	copy(c.entries, m.entries)
	return c
}
