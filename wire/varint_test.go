package wire_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/wippyai/protowire/wire"
)

func TestVarintEncoding(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0x80, 0x02}, 256},
		{[]byte{0xac, 0x02}, 300},
		{[]byte{0xff, 0x7f}, 16383},
		{[]byte{0x80, 0x80, 0x01}, 16384},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, math.MaxUint32},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			w := wire.NewWriter()
			w.WriteVarint(tt.value)
			if !bytes.Equal(w.Bytes(), tt.encoded) {
				t.Errorf("encode %d: got %v, want %v", tt.value, w.Bytes(), tt.encoded)
			}

			r := wire.NewReader(tt.encoded)
			got, err := r.ReadVarint()
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.value {
				t.Errorf("decode: got %d, want %d", got, tt.value)
			}
			if r.Len() != 0 {
				t.Errorf("decode left %d unread bytes", r.Len())
			}
		})
	}
}

func TestVarintMalformed(t *testing.T) {
	// Ten bytes all carrying the continuation bit: the run never ends
	// within the 10-byte limit for a 64-bit value.
	data := bytes.Repeat([]byte{0x80}, 10)
	r := wire.NewReader(data)
	_, err := r.ReadVarint()
	if !errors.Is(err, wire.ErrMalformedVarint) {
		t.Errorf("expected ErrMalformedVarint, got %v", err)
	}
}

func TestVarintTruncated(t *testing.T) {
	// Continuation bit set but no next byte.
	data := []byte{0x80, 0x80}
	r := wire.NewReader(data)
	_, err := r.ReadVarint()
	if !errors.Is(err, wire.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestAppendVarint(t *testing.T) {
	tests := []uint64{0, 1, 127, 128, 300, math.MaxUint64}
	for _, v := range tests {
		w := wire.NewWriter()
		w.WriteVarint(v)
		if got := wire.AppendVarint(nil, v); !bytes.Equal(got, w.Bytes()) {
			t.Errorf("AppendVarint(%d) = %v, want %v", v, got, w.Bytes())
		}
	}
}

func TestVarintLen(t *testing.T) {
	tests := []struct {
		value uint64
		want  int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{math.MaxUint32, 5},
		{math.MaxUint64, 10},
	}

	for _, tt := range tests {
		if got := wire.VarintLen(tt.value); got != tt.want {
			t.Errorf("VarintLen(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestFixedWidth(t *testing.T) {
	t.Run("fixed32", func(t *testing.T) {
		w := wire.NewWriter()
		w.WriteFixed32(0x01020304)
		want := []byte{0x04, 0x03, 0x02, 0x01}
		if !bytes.Equal(w.Bytes(), want) {
			t.Errorf("got %v, want %v", w.Bytes(), want)
		}

		r := wire.NewReader(w.Bytes())
		got, err := r.ReadFixed32()
		if err != nil {
			t.Fatalf("ReadFixed32: %v", err)
		}
		if got != 0x01020304 {
			t.Errorf("got 0x%08x", got)
		}
	})

	t.Run("fixed64", func(t *testing.T) {
		w := wire.NewWriter()
		w.WriteFixed64(0x0102030405060708)
		want := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
		if !bytes.Equal(w.Bytes(), want) {
			t.Errorf("got %v, want %v", w.Bytes(), want)
		}

		r := wire.NewReader(w.Bytes())
		got, err := r.ReadFixed64()
		if err != nil {
			t.Fatalf("ReadFixed64: %v", err)
		}
		if got != 0x0102030405060708 {
			t.Errorf("got 0x%016x", got)
		}
	})

	t.Run("fixed32_truncated", func(t *testing.T) {
		r := wire.NewReader([]byte{0x01, 0x02})
		if _, err := r.ReadFixed32(); !errors.Is(err, wire.ErrUnexpectedEOF) {
			t.Errorf("expected ErrUnexpectedEOF, got %v", err)
		}
	})

	t.Run("fixed64_truncated", func(t *testing.T) {
		r := wire.NewReader([]byte{0x01, 0x02, 0x03, 0x04})
		if _, err := r.ReadFixed64(); !errors.Is(err, wire.ErrUnexpectedEOF) {
			t.Errorf("expected ErrUnexpectedEOF, got %v", err)
		}
	})
}

func TestFloatReadWrite(t *testing.T) {
	t.Run("f32", func(t *testing.T) {
		tests := []float32{0, 1.5, -3.14, 1e38, float32(math.Inf(1))}
		for _, v := range tests {
			w := wire.NewWriter()
			w.WriteFloat32(v)
			r := wire.NewReader(w.Bytes())
			got, err := r.ReadFloat32()
			if err != nil {
				t.Fatalf("ReadFloat32: %v", err)
			}
			if got != v {
				t.Errorf("got %v, want %v", got, v)
			}
		}
	})

	t.Run("f64", func(t *testing.T) {
		tests := []float64{0, 1.5, -3.14, 1e308, math.Inf(-1)}
		for _, v := range tests {
			w := wire.NewWriter()
			w.WriteFloat64(v)
			r := wire.NewReader(w.Bytes())
			got, err := r.ReadFloat64()
			if err != nil {
				t.Fatalf("ReadFloat64: %v", err)
			}
			if got != v {
				t.Errorf("got %v, want %v", got, v)
			}
		}
	})
}

func TestReaderPosition(t *testing.T) {
	data := []byte{0x08, 0x96, 0x01, 0x1a}
	r := wire.NewReader(data)

	if r.Position() != 0 || r.Len() != 4 {
		t.Fatalf("fresh reader: pos %d, len %d", r.Position(), r.Len())
	}
	if _, err := r.ReadByte(); err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if _, err := r.ReadVarint(); err != nil {
		t.Fatalf("ReadVarint: %v", err)
	}
	if r.Position() != 3 || r.Len() != 1 {
		t.Errorf("after reads: pos %d, len %d", r.Position(), r.Len())
	}
}

func TestReadBytes(t *testing.T) {
	r := wire.NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05})

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v", got)
	}

	if _, err := r.ReadBytes(10); !errors.Is(err, wire.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}
