package wire

// Zigzag maps signed integers to unsigned ones so that values of small
// magnitude, negative included, varint-encode compactly. The mapping is a
// pure bijection with no failure mode: 0, -1, 1, -2 become 0, 1, 2, 3.

// EncodeZigzag32 maps a signed 32-bit integer to its zigzag form.
func EncodeZigzag32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// DecodeZigzag32 inverts EncodeZigzag32.
func DecodeZigzag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// EncodeZigzag64 maps a signed 64-bit integer to its zigzag form.
func EncodeZigzag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// DecodeZigzag64 inverts EncodeZigzag64.
func DecodeZigzag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
