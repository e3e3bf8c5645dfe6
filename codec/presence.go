package codec

import "sort"

// Presence tracks which fields of a record instance are populated. It is
// the authority the encoder consults: a field absent from the set is not
// serialized, whatever value the instance happens to hold for it.
//
// A Presence belongs to one record instance and is not synchronized.
type Presence struct {
	set map[string]struct{}
}

// NewPresence creates an empty presence set.
func NewPresence() *Presence {
	return &Presence{set: make(map[string]struct{})}
}

// Mark records the field as populated.
func (p *Presence) Mark(name string) {
	p.set[name] = struct{}{}
}

// Clear removes the field from the set.
func (p *Presence) Clear(name string) {
	delete(p.set, name)
}

// Has reports whether the field is populated.
func (p *Presence) Has(name string) bool {
	_, ok := p.set[name]
	return ok
}

// Len returns the number of populated fields.
func (p *Presence) Len() int {
	return len(p.set)
}

// Names returns the populated field names in sorted order.
func (p *Presence) Names() []string {
	names := make([]string, 0, len(p.set))
	for name := range p.set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset empties the set.
func (p *Presence) Reset() {
	clear(p.set)
}
