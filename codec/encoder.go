package codec

import (
	"fmt"
	"math"

	"github.com/wippyai/protowire/errors"
	"github.com/wippyai/protowire/schema"
	"github.com/wippyai/protowire/wire"
)

// Marshal serializes a record to wire bytes. Fields are emitted in
// ascending wire-number order; unpopulated fields are omitted entirely,
// except that an unpopulated required field fails the whole operation.
func (c *Codec) Marshal(msg Message) ([]byte, error) {
	typ, ok := c.registry.Lookup(msg.Shape())
	if !ok {
		return nil, errors.NotRegistered(errors.PhaseEncode, msg.Shape())
	}

	w := wire.NewWriter()
	if err := c.encodeMessage(w, typ, msg, nil); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *Codec) encodeMessage(w *wire.Writer, typ *schema.Type, msg Message, path []string) error {
	pres := msg.Presence()
	for _, f := range typ.FieldsByNumber() {
		if !pres.Has(f.Name) {
			if f.Required {
				return errors.MissingRequired(errors.PhaseEncode, typ.Name(), path, f.Name)
			}
			continue
		}
		v, _ := msg.Get(f.Name)
		if err := c.encodeField(w, f, v, appendPath(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) encodeField(w *wire.Writer, f *schema.Field, v any, path []string) error {
	if !f.Repeated {
		return c.encodeValue(w, f, v, path)
	}

	elems, ok := elementsOf(v)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path,
			fmt.Sprintf("%T", v), "slice of "+f.Kind.String())
	}

	if f.Packed {
		// An empty list encodes to nothing, matching the unpacked form;
		// an empty blob would round-trip as absent anyway.
		if len(elems) == 0 {
			return nil
		}
		// Elements back to back in one length-delimited blob, no
		// per-element tags.
		packed := wire.NewWriter()
		for i, e := range elems {
			if err := encodeScalar(packed, f, e, appendPath(path, fmt.Sprintf("[%d]", i))); err != nil {
				return err
			}
		}
		w.WriteTag(f.Number, wire.TypeBytes)
		w.WriteLengthDelimited(packed.Bytes())
		return nil
	}

	for i, e := range elems {
		if err := c.encodeValue(w, f, e, appendPath(path, fmt.Sprintf("[%d]", i))); err != nil {
			return err
		}
	}
	return nil
}

// encodeValue writes one tagged field occurrence.
func (c *Codec) encodeValue(w *wire.Writer, f *schema.Field, v any, path []string) error {
	switch f.Kind {
	case schema.KindMessage:
		nested, ok := v.(Message)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path,
				fmt.Sprintf("%T", v), "message "+f.MessageType)
		}
		if nested.Shape() != f.MessageType {
			return errors.TypeMismatch(errors.PhaseEncode, path,
				"message "+nested.Shape(), "message "+f.MessageType)
		}
		ntyp, ok := c.registry.Lookup(f.MessageType)
		if !ok {
			return errors.NotRegistered(errors.PhaseEncode, f.MessageType)
		}
		// Encode to a scratch writer first so the byte length is known
		// before the length prefix is written.
		sub := wire.NewWriter()
		if err := c.encodeMessage(sub, ntyp, nested, path); err != nil {
			return err
		}
		w.WriteTag(f.Number, wire.TypeBytes)
		w.WriteLengthDelimited(sub.Bytes())
		return nil

	case schema.KindString:
		s, err := toString(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteTag(f.Number, wire.TypeBytes)
		w.WriteLengthDelimited([]byte(s))
		return nil

	case schema.KindBytes:
		b, err := toBytes(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteTag(f.Number, wire.TypeBytes)
		w.WriteLengthDelimited(b)
		return nil

	default:
		w.WriteTag(f.Number, f.Kind.WireType())
		return encodeScalar(w, f, v, path)
	}
}

// encodeScalar writes one untagged scalar payload. Shared by singular,
// repeated and packed paths.
func encodeScalar(w *wire.Writer, f *schema.Field, v any, path []string) error {
	switch f.Kind {
	case schema.KindInt32, schema.KindEnum:
		n, err := toInt32(path, f.Kind, v)
		if err != nil {
			return err
		}
		// Negative values sign-extend to the full 10-byte varint.
		w.WriteVarint(uint64(int64(n)))
	case schema.KindInt64:
		n, err := toInt64(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteVarint(uint64(n))
	case schema.KindUint32:
		n, err := toUint32(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteVarint(uint64(n))
	case schema.KindUint64:
		n, err := toUint64(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteVarint(n)
	case schema.KindSint32:
		n, err := toInt32(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteVarint(uint64(wire.EncodeZigzag32(n)))
	case schema.KindSint64:
		n, err := toInt64(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteVarint(wire.EncodeZigzag64(n))
	case schema.KindBool:
		b, ok := v.(bool)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path,
				fmt.Sprintf("%T", v), f.Kind.String())
		}
		if b {
			w.WriteVarint(1)
		} else {
			w.WriteVarint(0)
		}
	case schema.KindFixed32:
		n, err := toUint32(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteFixed32(n)
	case schema.KindFixed64:
		n, err := toUint64(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteFixed64(n)
	case schema.KindSfixed32:
		n, err := toInt32(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteFixed32(uint32(n))
	case schema.KindSfixed64:
		n, err := toInt64(path, f.Kind, v)
		if err != nil {
			return err
		}
		w.WriteFixed64(uint64(n))
	case schema.KindFloat:
		n, ok := v.(float32)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path,
				fmt.Sprintf("%T", v), f.Kind.String())
		}
		w.WriteFloat32(n)
	case schema.KindDouble:
		n, ok := v.(float64)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path,
				fmt.Sprintf("%T", v), f.Kind.String())
		}
		w.WriteFloat64(n)
	default:
		return errors.Unsupported(errors.PhaseEncode,
			fmt.Sprintf("cannot encode %s as a scalar", f.Kind))
	}
	return nil
}

// elementsOf flattens the supported slice representations of a repeated
// field into []any for uniform element encoding.
func elementsOf(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []int32:
		return box(s), true
	case []int64:
		return box(s), true
	case []uint32:
		return box(s), true
	case []uint64:
		return box(s), true
	case []bool:
		return box(s), true
	case []float32:
		return box(s), true
	case []float64:
		return box(s), true
	case []string:
		return box(s), true
	case [][]byte:
		return box(s), true
	case []Message:
		return box(s), true
	case []*Record:
		return box(s), true
	case nil:
		return nil, true
	}
	return nil, false
}

func box[T any](s []T) []any {
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = e
	}
	return out
}

func toInt32(path []string, k schema.Kind, v any) (int32, error) {
	switch n := v.(type) {
	case int32:
		return n, nil
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, errors.Overflow(errors.PhaseEncode, path, n, k.String())
		}
		return int32(n), nil
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, errors.Overflow(errors.PhaseEncode, path, n, k.String())
		}
		return int32(n), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseEncode, path,
		fmt.Sprintf("%T", v), k.String())
}

func toInt64(path []string, k schema.Kind, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseEncode, path,
		fmt.Sprintf("%T", v), k.String())
}

func toUint32(path []string, k schema.Kind, v any) (uint32, error) {
	switch n := v.(type) {
	case uint32:
		return n, nil
	case uint64:
		if n > math.MaxUint32 {
			return 0, errors.Overflow(errors.PhaseEncode, path, n, k.String())
		}
		return uint32(n), nil
	case uint:
		if uint64(n) > math.MaxUint32 {
			return 0, errors.Overflow(errors.PhaseEncode, path, n, k.String())
		}
		return uint32(n), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseEncode, path,
		fmt.Sprintf("%T", v), k.String())
}

func toUint64(path []string, k schema.Kind, v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseEncode, path,
		fmt.Sprintf("%T", v), k.String())
}

func toString(path []string, k schema.Kind, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", errors.TypeMismatch(errors.PhaseEncode, path,
		fmt.Sprintf("%T", v), k.String())
}

func toBytes(path []string, k schema.Kind, v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	}
	return nil, errors.TypeMismatch(errors.PhaseEncode, path,
		fmt.Sprintf("%T", v), k.String())
}
