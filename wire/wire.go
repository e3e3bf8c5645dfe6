package wire

import "strconv"

// WireType is the 3-bit tag suffix saying how a field value is framed.
type WireType uint8

const (
	TypeVarint  WireType = 0 // int32, int64, uint32, uint64, sint32, sint64, bool, enum
	TypeFixed64 WireType = 1 // fixed64, sfixed64, double
	TypeBytes   WireType = 2 // string, bytes, submessages, packed repeated fields
	TypeFixed32 WireType = 5 // fixed32, sfixed32, float

	// Group delimiters are deprecated wire constructs. They are named so
	// errors can report them, but the codec rejects them.
	TypeStartGroup WireType = 3
	TypeEndGroup   WireType = 4
)

var wireTypeNames = map[WireType]string{
	TypeVarint:     "varint",
	TypeFixed64:    "fixed64",
	TypeBytes:      "bytes",
	TypeStartGroup: "start_group",
	TypeEndGroup:   "end_group",
	TypeFixed32:    "fixed32",
}

func (wt WireType) String() string {
	if name, ok := wireTypeNames[wt]; ok {
		return name
	}
	return "wiretype(" + strconv.Itoa(int(wt)) + ")"
}

// Valid reports whether wt is a wire type the codec can process.
func (wt WireType) Valid() bool {
	switch wt {
	case TypeVarint, TypeFixed64, TypeBytes, TypeFixed32:
		return true
	default:
		return false
	}
}

// FieldNumber identifies a field on the wire.
type FieldNumber int32

const (
	MinFieldNumber FieldNumber = 1
	MaxFieldNumber FieldNumber = 1<<29 - 1

	// [19000, 19999] is reserved by the protobuf wire specification.
	firstReservedNumber FieldNumber = 19000
	lastReservedNumber  FieldNumber = 19999
)

// Valid reports whether n is usable as a field number: positive, within
// 29 bits, and outside the reserved range.
func (n FieldNumber) Valid() bool {
	if n < MinFieldNumber || n > MaxFieldNumber {
		return false
	}
	return n < firstReservedNumber || n > lastReservedNumber
}

// Tag is a field number and wire type packed as (number << 3) | type.
type Tag uint64

// MakeTag packs a field number and wire type into a tag.
func MakeTag(n FieldNumber, wt WireType) Tag {
	return Tag(uint64(n)<<3 | uint64(wt))
}

// Split unpacks a tag into its field number and wire type.
func (t Tag) Split() (FieldNumber, WireType) {
	return FieldNumber(t >> 3), WireType(t & 0x7)
}
