package schema

import "github.com/wippyai/protowire/wire"

// Kind identifies the declared scalar, enum or message kind of a field.
type Kind uint8

const (
	KindInt32 Kind = iota
	KindInt64
	KindUint32
	KindUint64
	KindSint32
	KindSint64
	KindBool
	KindEnum
	KindFixed32
	KindFixed64
	KindSfixed32
	KindSfixed64
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindMessage
)

var kindNames = [...]string{
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindSint32:   "sint32",
	KindSint64:   "sint64",
	KindBool:     "bool",
	KindEnum:     "enum",
	KindFixed32:  "fixed32",
	KindFixed64:  "fixed64",
	KindSfixed32: "sfixed32",
	KindSfixed64: "sfixed64",
	KindFloat:    "float",
	KindDouble:   "double",
	KindString:   "string",
	KindBytes:    "bytes",
	KindMessage:  "message",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// WireType returns the wire framing implied by the kind.
func (k Kind) WireType() wire.WireType {
	switch k {
	case KindFixed64, KindSfixed64, KindDouble:
		return wire.TypeFixed64
	case KindFixed32, KindSfixed32, KindFloat:
		return wire.TypeFixed32
	case KindString, KindBytes, KindMessage:
		return wire.TypeBytes
	default:
		return wire.TypeVarint
	}
}

// Packable reports whether a repeated field of this kind may be encoded
// as a single length-delimited blob of back-to-back elements.
func (k Kind) Packable() bool {
	switch k {
	case KindString, KindBytes, KindMessage:
		return false
	default:
		return true
	}
}

// ZigZag reports whether values of this kind are zigzag-transformed
// before varint encoding.
func (k Kind) ZigZag() bool {
	return k == KindSint32 || k == KindSint64
}

// Valid reports whether k names a declared kind.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}
