// Package protowire implements a schema-driven codec for the Protocol
// Buffers wire format.
//
// Unlike generated-code protobuf runtimes, protowire does not require a
// compiled fixed-layout type per message. Field behavior is described by
// per-type metadata registered at runtime, and records are encoded and
// decoded through a small field-accessor contract. A dynamic, map-backed
// record implementation is provided so hand-written metadata alone is
// enough to speak the wire format.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	protowire/
//	├── wire/     Wire primitives: varints, zigzag, fixed-width values, tags
//	├── schema/   Field metadata: kinds, type descriptors, registry, TOML options
//	├── codec/    Message codec engine: tag-dispatch encode/decode, presence
//	└── errors/   Structured error types for debugging
//
// # Quick Start
//
// Register a shape and round-trip a record:
//
//	reg := schema.NewRegistry()
//	typ, err := reg.Register(schema.Descriptor{
//	    Name: "Person",
//	    Fields: []schema.FieldDecl{
//	        {Name: "id", Kind: schema.KindUint64, Required: true},
//	        {Name: "name", Kind: schema.KindString},
//	        {Name: "emails", Kind: schema.KindString, Repeated: true},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c := codec.New(reg)
//	rec := codec.NewRecord(typ)
//	rec.Set("id", uint64(7))
//	rec.Set("name", "ada")
//
//	data, err := c.Marshal(rec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out := codec.NewRecord(typ)
//	if err := c.Unmarshal(data, out); err != nil {
//	    log.Fatal(err)
//	}
//
// # Wire Compatibility
//
// The byte stream produced here is standard protobuf wire data: varint
// tags, zigzag-coded sint fields, little-endian fixed-width values, and
// length-delimited strings, bytes, submessages and packed repeated
// fields. Unknown fields are skipped by wire type during decode and are
// not retained. Extensions, services and the deprecated group construct
// are not supported.
//
// # Concurrency
//
// The codec engine performs no internal locking. A Registry is
// build-once/read-many: register every shape up front, then share it
// freely between goroutines. Records and their presence sets are owned
// by a single goroutine at a time.
package protowire
