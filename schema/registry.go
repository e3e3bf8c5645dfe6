package schema

import (
	"fmt"
	"math"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/protowire/errors"
	"github.com/wippyai/protowire/wire"
)

// Registry maps shape names to their resolved Types.
//
// A Registry is build-once/read-many: registration is guarded by a
// mutex, lookups after setup are safe from any goroutine. Registering
// new shapes while other goroutines are actively encoding or decoding
// is not supported.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	typ    *Type
	fields []*Field // normalized declaration, for idempotency checks
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register validates a shape description, merges the optional metadata
// override, and produces an immutable Type.
//
// Registration is write-once per shape name: re-registering an identical
// descriptor before the type's first lookup is a no-op returning the
// existing Type; any conflicting registration, or any re-registration
// after the type has been looked up, fails with invalid_metadata so
// wire numbering cannot change mid-run.
func (r *Registry) Register(desc Descriptor, opts *Options) (*Type, error) {
	if desc.Name == "" {
		return nil, errors.InvalidMetadata("", "shape name must not be empty")
	}

	fields, err := resolveFields(desc, opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[desc.Name]; ok {
		if existing.typ.isUsed() {
			return nil, errors.InvalidMetadata(desc.Name,
				"shape already registered and in use")
		}
		if !fieldsEqual(existing.fields, fields) {
			return nil, errors.InvalidMetadata(desc.Name,
				"conflicting re-registration of shape")
		}
		return existing.typ, nil
	}

	typ := newType(desc.Name, fields)
	r.entries[desc.Name] = &entry{typ: typ, fields: fields}

	Logger().Debug("registered shape",
		zap.String("type", desc.Name),
		zap.Int("fields", len(fields)))

	return typ, nil
}

// Lookup resolves a registered shape by name. A successful lookup marks
// the type as used, freezing its registration.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	e.typ.markUsed()
	return e.typ, true
}

// resolveFields merges the override, auto-assigns wire numbers and
// validates the result.
func resolveFields(desc Descriptor, opts *Options) ([]*Field, error) {
	if opts != nil {
		if err := checkOptionNames(desc, opts); err != nil {
			return nil, err
		}
	}

	byName := make(map[string]bool, len(desc.Fields))
	explicit := make(map[wire.FieldNumber]bool, len(desc.Fields))

	// First pass: merge overrides and collect explicitly claimed numbers.
	fields := make([]*Field, 0, len(desc.Fields))
	for _, decl := range desc.Fields {
		if decl.Name == "" {
			return nil, errors.InvalidMetadata(desc.Name, "field with empty name")
		}
		if byName[decl.Name] {
			return nil, errors.InvalidMetadata(desc.Name,
				fmt.Sprintf("duplicate field %q", decl.Name))
		}
		byName[decl.Name] = true

		f := &Field{
			Name:        decl.Name,
			Number:      decl.Number,
			Kind:        decl.Kind,
			Repeated:    decl.Repeated,
			Packed:      decl.Packed,
			Required:    decl.Required,
			Default:     decl.Default,
			MessageType: decl.MessageType,
		}
		if opts != nil {
			if n, ok := opts.Numbers[f.Name]; ok {
				f.Number = n
			}
			if v, ok := opts.Defaults[f.Name]; ok {
				f.Default = v
			}
		}
		if f.Number != 0 {
			if !f.Number.Valid() {
				return nil, errors.InvalidMetadata(desc.Name,
					fmt.Sprintf("field %q: number %d out of range", f.Name, f.Number))
			}
			if explicit[f.Number] {
				return nil, errors.InvalidMetadata(desc.Name,
					fmt.Sprintf("duplicate field number %d", f.Number))
			}
			explicit[f.Number] = true
		}
		fields = append(fields, f)
	}

	if opts != nil {
		for _, name := range opts.Required {
			if !byName[name] {
				return nil, errors.InvalidMetadata(desc.Name,
					fmt.Sprintf("required field %q not found among fields", name))
			}
			for _, f := range fields {
				if f.Name == name {
					f.Required = true
				}
			}
		}
	}

	// Second pass: auto-assign the unnumbered fields in declaration
	// order, skipping explicitly claimed numbers.
	next := wire.MinFieldNumber
	for _, f := range fields {
		if f.Number != 0 {
			continue
		}
		for explicit[next] || !next.Valid() {
			next++
			if next > wire.MaxFieldNumber {
				return nil, errors.InvalidMetadata(desc.Name, "field numbers exhausted")
			}
		}
		f.Number = next
		explicit[next] = true
		next++
	}

	for _, f := range fields {
		if err := validateField(desc.Name, f); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func checkOptionNames(desc Descriptor, opts *Options) error {
	declared := make(map[string]bool, len(desc.Fields))
	for _, decl := range desc.Fields {
		declared[decl.Name] = true
	}
	for name := range opts.Numbers {
		if !declared[name] {
			return errors.InvalidMetadata(desc.Name,
				fmt.Sprintf("number assignment for unknown field %q", name))
		}
	}
	for name := range opts.Defaults {
		if !declared[name] {
			return errors.InvalidMetadata(desc.Name,
				fmt.Sprintf("default for unknown field %q", name))
		}
	}
	return nil
}

func validateField(typeName string, f *Field) error {
	if !f.Kind.Valid() {
		return errors.InvalidMetadata(typeName,
			fmt.Sprintf("field %q: unknown kind", f.Name))
	}
	if f.Packed && !f.Repeated {
		return errors.InvalidMetadata(typeName,
			fmt.Sprintf("field %q: packed requires repeated", f.Name))
	}
	if f.Packed && !f.Kind.Packable() {
		return errors.InvalidMetadata(typeName,
			fmt.Sprintf("field %q: %s fields cannot be packed", f.Name, f.Kind))
	}
	if f.Required && f.Repeated {
		return errors.InvalidMetadata(typeName,
			fmt.Sprintf("field %q: required applies to singular fields only", f.Name))
	}
	if f.Kind == KindMessage && f.MessageType == "" {
		return errors.InvalidMetadata(typeName,
			fmt.Sprintf("field %q: message field needs a message type name", f.Name))
	}
	if f.Kind != KindMessage && f.MessageType != "" {
		return errors.InvalidMetadata(typeName,
			fmt.Sprintf("field %q: message type name on %s field", f.Name, f.Kind))
	}
	if f.Default != nil {
		if f.Repeated || f.Kind == KindMessage {
			return errors.InvalidMetadata(typeName,
				fmt.Sprintf("field %q: defaults apply to singular scalar fields only", f.Name))
		}
		v, err := normalizeDefault(f.Kind, f.Default)
		if err != nil {
			return errors.InvalidMetadata(typeName,
				fmt.Sprintf("field %q: %v", f.Name, err))
		}
		f.Default = v
	}
	return nil
}

// normalizeDefault converts a declared default to the canonical Go type
// for the kind. TOML decodes every integer as int64 and every float as
// float64, so those widths convert with a range check.
func normalizeDefault(k Kind, v any) (any, error) {
	switch k {
	case KindInt32, KindSint32, KindSfixed32, KindEnum:
		switch n := v.(type) {
		case int32:
			return n, nil
		case int64:
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, fmt.Errorf("default %d overflows %s", n, k)
			}
			return int32(n), nil
		}
	case KindInt64, KindSint64, KindSfixed64:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int32:
			return int64(n), nil
		}
	case KindUint32, KindFixed32:
		switch n := v.(type) {
		case uint32:
			return n, nil
		case int64:
			if n < 0 || n > math.MaxUint32 {
				return nil, fmt.Errorf("default %d overflows %s", n, k)
			}
			return uint32(n), nil
		}
	case KindUint64, KindFixed64:
		switch n := v.(type) {
		case uint64:
			return n, nil
		case int64:
			if n < 0 {
				return nil, fmt.Errorf("default %d overflows %s", n, k)
			}
			return uint64(n), nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindFloat:
		switch n := v.(type) {
		case float32:
			return n, nil
		case float64:
			return float32(n), nil
		}
	case KindDouble:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindBytes:
		switch b := v.(type) {
		case []byte:
			return b, nil
		case string:
			return []byte(b), nil
		}
	}
	return nil, fmt.Errorf("default %T does not match kind %s", v, k)
}

func fieldsEqual(a, b []*Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(*a[i], *b[i]) {
			return false
		}
	}
	return true
}
