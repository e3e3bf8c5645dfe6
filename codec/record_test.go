package codec_test

import (
	"testing"

	"github.com/wippyai/protowire/codec"
	"github.com/wippyai/protowire/schema"
)

func recordType(t *testing.T) *schema.Type {
	t.Helper()
	reg := schema.NewRegistry()
	typ, err := reg.Register(schema.Descriptor{
		Name: "Sample",
		Fields: []schema.FieldDecl{
			{Name: "count", Kind: schema.KindInt32},
			{Name: "label", Kind: schema.KindString},
			{Name: "country", Kind: schema.KindString, Default: "US"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return typ
}

func TestRecordDefaults(t *testing.T) {
	rec := codec.NewRecord(recordType(t))

	if rec.Shape() != "Sample" {
		t.Errorf("Shape() = %q", rec.Shape())
	}

	v, set := rec.Get("count")
	if set || v != int32(0) {
		t.Errorf("unset count = %v, %v", v, set)
	}
	v, set = rec.Get("country")
	if set || v != "US" {
		t.Errorf("unset country = %v, %v; want declared default", v, set)
	}
	if _, set := rec.Get("nope"); set {
		t.Error("unknown field should not read as set")
	}
}

func TestRecordSetGetClear(t *testing.T) {
	rec := codec.NewRecord(recordType(t))

	if err := rec.Set("count", int32(7)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, set := rec.Get("count")
	if !set || v != int32(7) {
		t.Errorf("count = %v, %v", v, set)
	}
	if !rec.Presence().Has("count") {
		t.Error("Set should mark presence")
	}

	rec.Clear("count")
	if rec.Presence().Has("count") {
		t.Error("Clear should drop presence")
	}
	if v, _ := rec.Get("count"); v != int32(0) {
		t.Errorf("cleared count reads %v, want default", v)
	}
}

func TestRecordSetUnknownField(t *testing.T) {
	rec := codec.NewRecord(recordType(t))
	if err := rec.Set("bogus", 1); err == nil {
		t.Fatal("Set of undeclared field should fail")
	}
}
