package schema_test

import (
	"errors"
	"testing"

	protoerrors "github.com/wippyai/protowire/errors"
	"github.com/wippyai/protowire/schema"
	"github.com/wippyai/protowire/wire"
)

func personDescriptor() schema.Descriptor {
	return schema.Descriptor{
		Name: "Person",
		Fields: []schema.FieldDecl{
			{Name: "id", Kind: schema.KindUint64},
			{Name: "name", Kind: schema.KindString},
			{Name: "age", Kind: schema.KindInt32},
		},
	}
}

func wantInvalidMetadata(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected invalid_metadata error, got nil")
	}
	if !errors.Is(err, &protoerrors.Error{
		Phase: protoerrors.PhaseRegister,
		Kind:  protoerrors.KindInvalidMetadata,
	}) {
		t.Fatalf("expected invalid_metadata, got %v", err)
	}
}

func TestRegisterAutoNumbering(t *testing.T) {
	reg := schema.NewRegistry()
	typ, err := reg.Register(personDescriptor(), nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for i, want := range []wire.FieldNumber{1, 2, 3} {
		f := typ.Fields()[i]
		if f.Number != want {
			t.Errorf("field %q number = %d, want %d", f.Name, f.Number, want)
		}
	}
}

func TestRegisterAutoNumberingSkipsExplicit(t *testing.T) {
	reg := schema.NewRegistry()
	typ, err := reg.Register(schema.Descriptor{
		Name: "Mixed",
		Fields: []schema.FieldDecl{
			{Name: "a", Kind: schema.KindInt32},
			{Name: "b", Kind: schema.KindInt32, Number: 1},
			{Name: "c", Kind: schema.KindInt32},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	a, _ := typ.FieldByName("a")
	b, _ := typ.FieldByName("b")
	c, _ := typ.FieldByName("c")
	if b.Number != 1 {
		t.Errorf("explicit number not honored: %d", b.Number)
	}
	if a.Number == b.Number || c.Number == b.Number || a.Number == c.Number {
		t.Errorf("numbers collide: a=%d b=%d c=%d", a.Number, b.Number, c.Number)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		desc schema.Descriptor
		opts *schema.Options
	}{
		{
			name: "empty_shape_name",
			desc: schema.Descriptor{Fields: []schema.FieldDecl{{Name: "a", Kind: schema.KindInt32}}},
		},
		{
			name: "duplicate_field_name",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32},
				{Name: "a", Kind: schema.KindInt64},
			}},
		},
		{
			name: "duplicate_field_number",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32, Number: 5},
				{Name: "b", Kind: schema.KindInt64, Number: 5},
			}},
		},
		{
			name: "reserved_field_number",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32, Number: 19100},
			}},
		},
		{
			name: "number_too_large",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32, Number: wire.MaxFieldNumber + 1},
			}},
		},
		{
			name: "packed_on_string",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindString, Repeated: true, Packed: true},
			}},
		},
		{
			name: "packed_without_repeated",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32, Packed: true},
			}},
		},
		{
			name: "required_repeated",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32, Repeated: true, Required: true},
			}},
		},
		{
			name: "message_without_type_name",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindMessage},
			}},
		},
		{
			name: "required_option_unknown_field",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32},
			}},
			opts: &schema.Options{Required: []string{"ghost"}},
		},
		{
			name: "number_option_unknown_field",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32},
			}},
			opts: &schema.Options{Numbers: map[string]wire.FieldNumber{"ghost": 1}},
		},
		{
			name: "default_type_mismatch",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32, Default: "nope"},
			}},
		},
		{
			name: "default_overflow",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32, Default: int64(1) << 40},
			}},
		},
		{
			name: "default_on_repeated",
			desc: schema.Descriptor{Name: "T", Fields: []schema.FieldDecl{
				{Name: "a", Kind: schema.KindInt32, Repeated: true, Default: int64(1)},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := schema.NewRegistry()
			_, err := reg.Register(tt.desc, tt.opts)
			wantInvalidMetadata(t, err)
		})
	}
}

func TestRegisterIdempotent(t *testing.T) {
	reg := schema.NewRegistry()
	first, err := reg.Register(personDescriptor(), nil)
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}

	second, err := reg.Register(personDescriptor(), nil)
	if err != nil {
		t.Fatalf("identical re-register should be accepted: %v", err)
	}
	if first != second {
		t.Error("re-register should return the existing Type")
	}
}

func TestRegisterConflictRejected(t *testing.T) {
	reg := schema.NewRegistry()
	if _, err := reg.Register(personDescriptor(), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	conflicting := personDescriptor()
	conflicting.Fields[0].Number = 9
	_, err := reg.Register(conflicting, nil)
	wantInvalidMetadata(t, err)
}

func TestRegisterAfterUseRejected(t *testing.T) {
	reg := schema.NewRegistry()
	if _, err := reg.Register(personDescriptor(), nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := reg.Lookup("Person"); !ok {
		t.Fatal("Lookup failed")
	}

	// Even an identical descriptor is rejected once the type is in use.
	_, err := reg.Register(personDescriptor(), nil)
	wantInvalidMetadata(t, err)
}

func TestRegisterWithOptions(t *testing.T) {
	reg := schema.NewRegistry()
	typ, err := reg.Register(personDescriptor(), &schema.Options{
		Numbers:  map[string]wire.FieldNumber{"id": 10, "name": 20},
		Required: []string{"id"},
		Defaults: map[string]any{"age": int64(18)},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	id, _ := typ.FieldByName("id")
	if id.Number != 10 || !id.Required {
		t.Errorf("id = %+v", id)
	}
	name, _ := typ.FieldByName("name")
	if name.Number != 20 {
		t.Errorf("name number = %d", name.Number)
	}
	age, _ := typ.FieldByName("age")
	if age.Number != 1 {
		t.Errorf("age should auto-assign the first free number, got %d", age.Number)
	}
	if age.Default != int32(18) {
		t.Errorf("age default = %v (%T), want int32(18)", age.Default, age.Default)
	}

	if len(typ.Required()) != 1 || typ.Required()[0].Name != "id" {
		t.Errorf("Required() = %v", typ.Required())
	}
}

func TestTypeLookupTables(t *testing.T) {
	reg := schema.NewRegistry()
	typ, err := reg.Register(personDescriptor(), nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if f, ok := typ.FieldByNumber(2); !ok || f.Name != "name" {
		t.Errorf("FieldByNumber(2) = %v, %v", f, ok)
	}
	if _, ok := typ.FieldByNumber(99); ok {
		t.Error("FieldByNumber(99) should miss")
	}
	if f, ok := typ.FieldByName("age"); !ok || f.Number != 3 {
		t.Errorf("FieldByName(age) = %v, %v", f, ok)
	}

	ordered := typ.FieldsByNumber()
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Number >= ordered[i].Number {
			t.Errorf("FieldsByNumber not ascending: %v", ordered)
		}
	}
}

func TestDefaultValue(t *testing.T) {
	reg := schema.NewRegistry()
	typ, err := reg.Register(schema.Descriptor{
		Name: "Defaults",
		Fields: []schema.FieldDecl{
			{Name: "n", Kind: schema.KindInt32},
			{Name: "s", Kind: schema.KindString},
			{Name: "b", Kind: schema.KindBytes},
			{Name: "f", Kind: schema.KindFloat},
			{Name: "country", Kind: schema.KindString, Default: "US"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	n, _ := typ.FieldByName("n")
	if n.DefaultValue() != int32(0) {
		t.Errorf("int32 default = %v", n.DefaultValue())
	}
	s, _ := typ.FieldByName("s")
	if s.DefaultValue() != "" {
		t.Errorf("string default = %v", s.DefaultValue())
	}
	f, _ := typ.FieldByName("f")
	if f.DefaultValue() != float32(0) {
		t.Errorf("float default = %v", f.DefaultValue())
	}
	country, _ := typ.FieldByName("country")
	if country.DefaultValue() != "US" {
		t.Errorf("declared default = %v", country.DefaultValue())
	}
}
