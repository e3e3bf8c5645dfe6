package schema

import (
	"sort"
	"sync/atomic"

	"github.com/wippyai/protowire/wire"
)

// Field is the resolved metadata for one field of a record shape.
type Field struct {
	Default     any
	Name        string
	MessageType string // registered type name of the nested shape, for KindMessage
	Number      wire.FieldNumber
	Kind        Kind
	Repeated    bool
	Packed      bool
	Required    bool
}

// DefaultValue returns the field's declared default, or the zero value
// for its kind when none was declared. Message fields have no default.
func (f *Field) DefaultValue() any {
	if f.Default != nil {
		return f.Default
	}
	if f.Repeated {
		return nil
	}
	switch f.Kind {
	case KindInt32, KindSint32, KindSfixed32, KindEnum:
		return int32(0)
	case KindInt64, KindSint64, KindSfixed64:
		return int64(0)
	case KindUint32, KindFixed32:
		return uint32(0)
	case KindUint64, KindFixed64:
		return uint64(0)
	case KindBool:
		return false
	case KindFloat:
		return float32(0)
	case KindDouble:
		return float64(0)
	case KindString:
		return ""
	case KindBytes:
		return []byte(nil)
	default:
		return nil
	}
}

// Type is the immutable metadata for one record shape. Types are built by
// Registry.Register and shared read-only by every instance of the shape.
type Type struct {
	byName   map[string]*Field
	byNumber map[wire.FieldNumber]*Field
	name     string
	fields   []*Field // declaration order
	ordered  []*Field // ascending wire number
	required []*Field
	used     atomic.Bool
}

func newType(name string, fields []*Field) *Type {
	t := &Type{
		name:     name,
		fields:   fields,
		byName:   make(map[string]*Field, len(fields)),
		byNumber: make(map[wire.FieldNumber]*Field, len(fields)),
	}
	for _, f := range fields {
		t.byName[f.Name] = f
		t.byNumber[f.Number] = f
		if f.Required {
			t.required = append(t.required, f)
		}
	}
	t.ordered = append([]*Field(nil), fields...)
	sort.Slice(t.ordered, func(i, j int) bool {
		return t.ordered[i].Number < t.ordered[j].Number
	})
	return t
}

// Name returns the registered shape name.
func (t *Type) Name() string {
	return t.name
}

// Fields returns the fields in declaration order. The returned slice is
// shared; callers must not modify it.
func (t *Type) Fields() []*Field {
	return t.fields
}

// FieldsByNumber returns the fields in ascending wire-number order, the
// order the encoder emits them in.
func (t *Type) FieldsByNumber() []*Field {
	return t.ordered
}

// FieldByName resolves a field by identifier. A miss on the encode path
// is a configuration error, not a data error.
func (t *Type) FieldByName(name string) (*Field, bool) {
	f, ok := t.byName[name]
	return f, ok
}

// FieldByNumber resolves a field by wire number. A miss during decode
// means "unknown field", not an error.
func (t *Type) FieldByNumber(n wire.FieldNumber) (*Field, bool) {
	f, ok := t.byNumber[n]
	return f, ok
}

// Required returns the fields whose absence makes a record invalid for
// serialization.
func (t *Type) Required() []*Field {
	return t.required
}

// markUsed records that the type has been observed by a lookup, freezing
// its registration.
func (t *Type) markUsed() {
	t.used.Store(true)
}

func (t *Type) isUsed() bool {
	return t.used.Load()
}
