package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by Reader.
var (
	// ErrMalformedVarint is returned when a varint's continuation-bit run
	// exceeds the maximum 10 bytes for a 64-bit value.
	ErrMalformedVarint = errors.New("wire: malformed varint")

	// ErrUnexpectedEOF is returned when the cursor runs out of bytes while
	// a value expects more.
	ErrUnexpectedEOF = errors.New("wire: unexpected end of input")

	// ErrInvalidTag is returned for a tag with field number zero.
	ErrInvalidTag = errors.New("wire: invalid tag with field number 0")
)

// MaxVarintLen is the maximum encoded size of a 64-bit varint.
const MaxVarintLen = 10

// Reader is a byte cursor over a buffer with position tracking.
//
// It operates on a slice rather than an io.Reader so that a nested
// length-delimited region can be decoded by slicing its payload and
// recursing with a fresh, bounded Reader.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader over buf. The Reader does not copy buf;
// byte slices returned by ReadBytes alias it.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, r.wrapError(ErrUnexpectedEOF)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The returned slice aliases the
// Reader's buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, r.wrapError(ErrUnexpectedEOF)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// ReadVarint reads a base-128 varint: 7 value bits per byte, high bit as
// continuation flag, little-endian group order. A run longer than 10
// bytes fails with ErrMalformedVarint.
func (r *Reader) ReadVarint() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < MaxVarintLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, r.wrapError(ErrMalformedVarint)
}

// ReadTag reads one varint-encoded field tag and splits it.
func (r *Reader) ReadTag() (FieldNumber, WireType, error) {
	v, err := r.ReadVarint()
	if err != nil {
		return 0, 0, err
	}
	n, wt := Tag(v).Split()
	if n < MinFieldNumber {
		return 0, 0, r.wrapError(ErrInvalidTag)
	}
	return n, wt, nil
}

// ReadFixed32 reads a little-endian fixed-width uint32.
func (r *Reader) ReadFixed32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadFixed64 reads a little-endian fixed-width uint64.
func (r *Reader) ReadFixed64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadFloat32 reads a little-endian IEEE-754 single-precision value.
func (r *Reader) ReadFloat32() (float32, error) {
	bits, err := r.ReadFixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadFloat64 reads a little-endian IEEE-754 double-precision value.
func (r *Reader) ReadFloat64() (float64, error) {
	bits, err := r.ReadFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}
