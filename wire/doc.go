// Package wire implements the Protocol Buffers wire-format primitives.
//
// It provides the byte-level building blocks the codec engine is built
// from: base-128 varints, the zigzag signed-integer transform, fixed-width
// little-endian 32/64-bit values, and field tags pairing a field number
// with a wire type.
//
// # Key Types
//
//	Reader    - Byte cursor with position tracking over a buffer
//	Writer    - Append-only encoder over an internal buffer
//	Tag       - (field number << 3) | wire type, itself varint-encoded
//	WireType  - 3-bit framing discriminator (varint, 64-bit, bytes, 32-bit)
//
// All Reader operations advance the cursor by exactly the bytes consumed;
// all Writer operations append exactly the bytes produced. Neither holds
// any other state, so nested length-delimited regions are decoded by
// slicing the payload and recursing with a fresh Reader.
//
// This package is deliberately low level and reports failures with the
// sentinel errors ErrMalformedVarint and ErrUnexpectedEOF; the codec
// package wraps them into structured errors with field paths.
package wire
