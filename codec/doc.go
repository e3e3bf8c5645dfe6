// Package codec implements the message codec engine: schema-driven
// encoding and decoding between in-memory records and wire bytes.
//
// A Codec is bound to a schema.Registry and is stateless beyond that
// binding; one Codec may be shared by any number of goroutines. The
// records it operates on are not synchronized: a Message instance must
// be owned by a single goroutine for the duration of a Marshal or
// Unmarshal call.
//
// Encoding walks the shape's fields in ascending wire-number order and
// emits only fields the instance's Presence set marks as populated.
// Decoding is a bounded tag-dispatch loop: known fields are decoded per
// their declared kind, unknown field numbers and wire-type mismatches
// are skipped without error, and the payload bytes are dropped.
//
// Unmarshal only ever adds to an instance's presence. Decoding into a
// previously used record leaves fields absent from the new bytes
// untouched; call Presence().Reset() between messages when merge
// semantics are not wanted.
package codec
