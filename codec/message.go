package codec

import (
	"github.com/wippyai/protowire/errors"
	"github.com/wippyai/protowire/schema"
)

// Message is the field-accessor contract the engine encodes from and
// decodes into. Record implements it generically; static types with
// compiled layouts can implement it directly.
type Message interface {
	// Shape returns the registered shape name.
	Shape() string

	// Get returns the field's current value and whether it is populated.
	// Implementations return the schema default for unpopulated fields.
	Get(name string) (any, bool)

	// Set stores a value and marks the field populated.
	Set(name string, v any) error

	// Clear removes the value and presence mark.
	Clear(name string)

	// Presence returns the instance's presence set.
	Presence() *Presence
}

// Record is a dynamic map-backed Message built from registered shape
// metadata. It needs no generated code; field access goes through the
// shape's name index.
type Record struct {
	typ      *schema.Type
	values   map[string]any
	presence *Presence
}

// NewRecord creates an empty record of the given shape.
func NewRecord(typ *schema.Type) *Record {
	return &Record{
		typ:      typ,
		values:   make(map[string]any),
		presence: NewPresence(),
	}
}

// Shape returns the record's shape name.
func (r *Record) Shape() string {
	return r.typ.Name()
}

// Type returns the record's shape metadata.
func (r *Record) Type() *schema.Type {
	return r.typ
}

// Get returns the field's value and whether it is populated. An
// unpopulated field reads as its schema default without becoming
// populated, so defaulted and absent never conflate.
func (r *Record) Get(name string) (any, bool) {
	if r.presence.Has(name) {
		return r.values[name], true
	}
	f, ok := r.typ.FieldByName(name)
	if !ok {
		return nil, false
	}
	return f.DefaultValue(), false
}

// Set stores a value and marks the field populated. Setting a field the
// shape does not declare is a configuration error.
func (r *Record) Set(name string, v any) error {
	if _, ok := r.typ.FieldByName(name); !ok {
		return errors.New(errors.PhaseEncode, errors.KindInvalidMetadata).
			Type(r.typ.Name()).
			Detail("unknown field %q", name).
			Build()
	}
	r.values[name] = v
	r.presence.Mark(name)
	return nil
}

// Clear removes the value and the presence mark.
func (r *Record) Clear(name string) {
	delete(r.values, name)
	r.presence.Clear(name)
}

// Presence returns the record's presence set.
func (r *Record) Presence() *Presence {
	return r.presence
}
