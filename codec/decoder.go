package codec

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/protowire/errors"
	"github.com/wippyai/protowire/schema"
	"github.com/wippyai/protowire/wire"
)

// Unmarshal decodes wire bytes into a record. Unknown field numbers and
// wire-type mismatches are skipped, their bytes dropped. Presence is only
// ever added to: fields absent from data keep whatever the record held
// before the call.
func (c *Codec) Unmarshal(data []byte, msg Message) error {
	typ, ok := c.registry.Lookup(msg.Shape())
	if !ok {
		return errors.NotRegistered(errors.PhaseDecode, msg.Shape())
	}
	return c.decodeMessage(data, typ, msg, nil, false)
}

// decodeMessage runs the tag-dispatch loop over one bounded region.
// bounded marks a nested length-delimited region, where running out of
// bytes mid-field means the enclosing length prefix lied.
func (c *Codec) decodeMessage(data []byte, typ *schema.Type, msg Message, path []string, bounded bool) error {
	r := wire.NewReader(data)
	for r.Len() > 0 {
		num, wt, err := r.ReadTag()
		if err != nil {
			return decodeError(err, typ.Name(), path, bounded)
		}
		if !wt.Valid() {
			return errors.InvalidWireType(path, uint8(wt))
		}

		f, known := typ.FieldByNumber(num)
		if !known {
			Logger().Debug("skipping unknown field",
				zap.String("type", typ.Name()),
				zap.Int32("number", int32(num)),
				zap.String("wire_type", wt.String()))
			if err := skipValue(r, wt, path, bounded); err != nil {
				return err
			}
			continue
		}
		if !acceptsWireType(f, wt) {
			Logger().Debug("skipping wire type mismatch",
				zap.String("type", typ.Name()),
				zap.String("field", f.Name),
				zap.String("got", wt.String()),
				zap.String("want", f.Kind.WireType().String()))
			if err := skipValue(r, wt, path, bounded); err != nil {
				return err
			}
			continue
		}

		if err := c.decodeField(r, f, wt, msg, appendPath(path, f.Name), bounded); err != nil {
			return err
		}
	}
	return nil
}

// acceptsWireType reports whether an occurrence framed as wt can carry a
// value for f. A packable repeated field accepts both its element wire
// type and the packed length-delimited form.
func acceptsWireType(f *schema.Field, wt wire.WireType) bool {
	if wt == f.Kind.WireType() {
		return true
	}
	return f.Repeated && f.Kind.Packable() && wt == wire.TypeBytes
}

func (c *Codec) decodeField(r *wire.Reader, f *schema.Field, wt wire.WireType, msg Message, path []string, bounded bool) error {
	if f.Kind == schema.KindMessage {
		return c.decodeMessageField(r, f, msg, path, bounded)
	}

	if f.Repeated && f.Kind.Packable() && wt == wire.TypeBytes {
		return c.decodePacked(r, f, msg, path, bounded)
	}

	v, err := decodeScalar(r, f, path, bounded)
	if err != nil {
		return err
	}
	if f.Repeated {
		return appendElement(f, msg, v, path)
	}
	return msg.Set(f.Name, v)
}

func (c *Codec) decodeMessageField(r *wire.Reader, f *schema.Field, msg Message, path []string, bounded bool) error {
	ntyp, ok := c.registry.Lookup(f.MessageType)
	if !ok {
		return errors.NotRegistered(errors.PhaseDecode, f.MessageType)
	}
	payload, err := readDelimited(r, path, bounded)
	if err != nil {
		return err
	}

	if f.Repeated {
		nested := NewRecord(ntyp)
		if err := c.decodeMessage(payload, ntyp, nested, path, true); err != nil {
			return err
		}
		return appendElement(f, msg, nested, path)
	}

	// A singular nested field merges into the existing submessage when
	// one is already populated; repeated occurrences of the field in the
	// same byte stream accumulate the same way.
	nested := c.reuseOrNewRecord(msg, f, ntyp)
	if err := c.decodeMessage(payload, ntyp, nested, path, true); err != nil {
		return err
	}
	return msg.Set(f.Name, nested)
}

func (c *Codec) reuseOrNewRecord(msg Message, f *schema.Field, ntyp *schema.Type) Message {
	cur, set := msg.Get(f.Name)
	if !set {
		return NewRecord(ntyp)
	}
	nested, ok := cur.(Message)
	if !ok || nested.Shape() != f.MessageType {
		return NewRecord(ntyp)
	}
	return nested
}

// decodePacked decodes a length-delimited blob of back-to-back scalar
// elements until the blob is exhausted.
func (c *Codec) decodePacked(r *wire.Reader, f *schema.Field, msg Message, path []string, bounded bool) error {
	payload, err := readDelimited(r, path, bounded)
	if err != nil {
		return err
	}
	pr := wire.NewReader(payload)
	for pr.Len() > 0 {
		v, err := decodeScalar(pr, f, path, true)
		if err != nil {
			return err
		}
		if err := appendElement(f, msg, v, path); err != nil {
			return err
		}
	}
	return nil
}

// decodeScalar reads one untagged value of the field's kind. Varint kinds
// are narrowed to the declared width; a value that does not fit is an
// overflow, not a silent truncation.
func decodeScalar(r *wire.Reader, f *schema.Field, path []string, bounded bool) (any, error) {
	switch f.Kind {
	case schema.KindInt32, schema.KindEnum:
		v, err := r.ReadVarint()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		n := int64(v)
		if n < -1<<31 || n > 1<<31-1 {
			return nil, errors.Overflow(errors.PhaseDecode, path, n, f.Kind.String())
		}
		return int32(n), nil
	case schema.KindInt64:
		v, err := r.ReadVarint()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return int64(v), nil
	case schema.KindUint32:
		v, err := r.ReadVarint()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		if v > 1<<32-1 {
			return nil, errors.Overflow(errors.PhaseDecode, path, v, f.Kind.String())
		}
		return uint32(v), nil
	case schema.KindUint64:
		v, err := r.ReadVarint()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return v, nil
	case schema.KindSint32:
		v, err := r.ReadVarint()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		if v > 1<<32-1 {
			return nil, errors.Overflow(errors.PhaseDecode, path, v, f.Kind.String())
		}
		return wire.DecodeZigzag32(uint32(v)), nil
	case schema.KindSint64:
		v, err := r.ReadVarint()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return wire.DecodeZigzag64(v), nil
	case schema.KindBool:
		v, err := r.ReadVarint()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return v != 0, nil
	case schema.KindFixed32:
		v, err := r.ReadFixed32()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return v, nil
	case schema.KindFixed64:
		v, err := r.ReadFixed64()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return v, nil
	case schema.KindSfixed32:
		v, err := r.ReadFixed32()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return int32(v), nil
	case schema.KindSfixed64:
		v, err := r.ReadFixed64()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return int64(v), nil
	case schema.KindFloat:
		v, err := r.ReadFloat32()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return v, nil
	case schema.KindDouble:
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, decodeError(err, "", path, bounded)
		}
		return v, nil
	case schema.KindString:
		payload, err := readDelimited(r, path, bounded)
		if err != nil {
			return nil, err
		}
		return string(payload), nil
	case schema.KindBytes:
		payload, err := readDelimited(r, path, bounded)
		if err != nil {
			return nil, err
		}
		// The reader aliases the input buffer; decoded bytes must not.
		return append([]byte(nil), payload...), nil
	}
	return nil, errors.Unsupported(errors.PhaseDecode,
		"cannot decode kind "+f.Kind.String())
}

// readDelimited reads a varint length prefix and its payload. A prefix
// that points past the end of the region is a truncated message wherever
// it occurs.
func readDelimited(r *wire.Reader, path []string, bounded bool) ([]byte, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, decodeError(err, "", path, bounded)
	}
	if n > uint64(r.Len()) {
		return nil, errors.Truncated(path,
			"length prefix exceeds remaining bytes")
	}
	payload, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, errors.Truncated(path,
			"length prefix exceeds remaining bytes")
	}
	return payload, nil
}

// skipValue consumes one value of the given framing without decoding it.
func skipValue(r *wire.Reader, wt wire.WireType, path []string, bounded bool) error {
	switch wt {
	case wire.TypeVarint:
		if _, err := r.ReadVarint(); err != nil {
			return decodeError(err, "", path, bounded)
		}
	case wire.TypeFixed64:
		if _, err := r.ReadBytes(8); err != nil {
			return decodeError(err, "", path, bounded)
		}
	case wire.TypeFixed32:
		if _, err := r.ReadBytes(4); err != nil {
			return decodeError(err, "", path, bounded)
		}
	case wire.TypeBytes:
		if _, err := readDelimited(r, path, bounded); err != nil {
			return err
		}
	default:
		return errors.InvalidWireType(path, uint8(wt))
	}
	return nil
}

// appendElement grows the field's canonical slice representation with one
// decoded element.
func appendElement(f *schema.Field, msg Message, elem any, path []string) error {
	cur, set := msg.Get(f.Name)

	grow := func(v any) error {
		return msg.Set(f.Name, v)
	}

	switch f.Kind {
	case schema.KindInt32, schema.KindSint32, schema.KindSfixed32, schema.KindEnum:
		return growSlice[int32](f, cur, set, elem, path, grow)
	case schema.KindInt64, schema.KindSint64, schema.KindSfixed64:
		return growSlice[int64](f, cur, set, elem, path, grow)
	case schema.KindUint32, schema.KindFixed32:
		return growSlice[uint32](f, cur, set, elem, path, grow)
	case schema.KindUint64, schema.KindFixed64:
		return growSlice[uint64](f, cur, set, elem, path, grow)
	case schema.KindBool:
		return growSlice[bool](f, cur, set, elem, path, grow)
	case schema.KindFloat:
		return growSlice[float32](f, cur, set, elem, path, grow)
	case schema.KindDouble:
		return growSlice[float64](f, cur, set, elem, path, grow)
	case schema.KindString:
		return growSlice[string](f, cur, set, elem, path, grow)
	case schema.KindBytes:
		return growSlice[[]byte](f, cur, set, elem, path, grow)
	case schema.KindMessage:
		return growSlice[Message](f, cur, set, elem, path, grow)
	}
	return errors.Unsupported(errors.PhaseDecode,
		"cannot append kind "+f.Kind.String())
}

func growSlice[T any](f *schema.Field, cur any, set bool, elem any, path []string, grow func(any) error) error {
	e, ok := elem.(T)
	if !ok {
		return errors.TypeMismatch(errors.PhaseDecode, path,
			typeName(elem), f.Kind.String())
	}
	var s []T
	if set && cur != nil {
		s, ok = cur.([]T)
		if !ok {
			return errors.TypeMismatch(errors.PhaseDecode, path,
				typeName(cur), "slice of "+f.Kind.String())
		}
	}
	return grow(append(s, e))
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// decodeError maps the reader's sentinel errors into the structured
// taxonomy. Inside a bounded region a premature end of input means the
// enclosing length prefix was wrong; at the top level it is a plain
// unexpected end of input.
func decodeError(err error, typeName string, path []string, bounded bool) error {
	kind := errors.KindUnexpectedEOF
	detail := ""
	switch {
	case stderrors.Is(err, wire.ErrMalformedVarint):
		kind = errors.KindMalformedVarint
	case stderrors.Is(err, wire.ErrUnexpectedEOF):
		if bounded {
			kind = errors.KindTruncatedMessage
		}
	case stderrors.Is(err, wire.ErrInvalidTag):
		kind = errors.KindInvalidWireType
		detail = "tag with field number 0"
	}
	b := errors.New(errors.PhaseDecode, kind).
		Type(typeName).
		Path(path...).
		Cause(err)
	if detail != "" {
		b = b.Detail(detail)
	}
	return b.Build()
}
