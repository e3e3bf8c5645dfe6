package wire

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer provides buffered writing of wire-format primitives.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice verbatim.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteVarint writes v as a base-128 varint.
func (w *Writer) WriteVarint(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// WriteTag writes the varint-encoded tag for a field number and wire type.
func (w *Writer) WriteTag(n FieldNumber, wt WireType) {
	w.WriteVarint(uint64(MakeTag(n, wt)))
}

// WriteFixed32 writes a little-endian fixed-width uint32.
func (w *Writer) WriteFixed32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteFixed64 writes a little-endian fixed-width uint64.
func (w *Writer) WriteFixed64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteFloat32 writes a little-endian IEEE-754 single-precision value.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteFixed32(math.Float32bits(v))
}

// WriteFloat64 writes a little-endian IEEE-754 double-precision value.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteFixed64(math.Float64bits(v))
}

// WriteLengthDelimited writes a varint length prefix followed by data.
func (w *Writer) WriteLengthDelimited(data []byte) {
	w.WriteVarint(uint64(len(data)))
	w.buf.Write(data)
}

// AppendVarint appends the varint encoding of v to dst and returns the
// extended slice.
func AppendVarint(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// VarintLen returns the encoded size of v in bytes.
func VarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
