package outcome

import "unicode/utf16"

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
	hashSep            = '|'
)

// StableHash combines an error type and message into a deterministic,
// order-sensitive 32-bit FNV-1a hash over their UTF-16 code units, with a
// '|' separator between them. The result is never zero.
func StableHash(errorType, message string) uint32 {
	h := fnvOffset32
	h = mixUTF16(h, errorType)
	h ^= uint32(hashSep)
	h *= fnvPrime32
	h = mixUTF16(h, message)
	if h == 0 {
		// zero is reserved for "no failure"
		h = 1
	}
	return h
}

func mixUTF16(h uint32, s string) uint32 {
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return h
}
