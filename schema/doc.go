// Package schema defines the field metadata driving the protowire codec.
//
// A record shape is described by a Descriptor (field names and kinds, plus
// optional overrides for wire numbers, the required set and defaults) and
// registered with a Registry, which validates it and produces an immutable
// Type. The codec engine resolves fields through the Type on every encode
// and decode: by name when writing, by wire number when reading.
//
// # Lifecycle
//
// A Registry is write-once-then-read-only: register every shape during
// setup, then share the Registry freely across goroutines. Re-registering
// a name with an identical descriptor before first use is a no-op;
// conflicting or post-use re-registration is rejected with an
// invalid_metadata error so wire numbering can never change mid-run.
//
// # Metadata sources
//
// Descriptors may be produced by a code generator, written by hand, or
// assembled from hand-written TOML tables via LoadOptions. All override
// tables are optional: with everything empty, field numbers ascend from 1
// in declaration order, every field is optional, and defaults are zero
// values.
package schema
