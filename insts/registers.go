package insts

// Condition register field bits, for field 0. Field n is shifted right by
// 4*n.
const (
	CRLT uint32 = 0x80000000
	CRGT uint32 = 0x40000000
	CREQ uint32 = 0x20000000
	CRSO uint32 = 0x10000000
)

// Integer exception register bits.
const (
	XERSO uint32 = 0x80000000 // summary overflow, sticky
	XEROV uint32 = 0x40000000 // overflow
	XERCA uint32 = 0x20000000 // carry
	// XERByteCount is the string-instruction byte count field.
	XERByteCount uint32 = 0x0000007F
	// XERArchMask covers every XER bit a 32-bit implementation defines.
	XERArchMask = XERSO | XEROV | XERCA | XERByteCount
)

// CRFieldMask returns the mask of condition register field n (0-7).
func CRFieldMask(n uint8) uint32 {
	return 0xF0000000 >> (4 * uint32(n&7))
}

// CRField extracts field n of cr as a 4-bit value (LT, GT, EQ, SO from high
// to low).
func CRField(cr uint32, n uint8) uint8 {
	return uint8(cr>>(28-4*uint32(n&7))) & 0xF
}

// CRBitMask returns the mask for condition register bit i (0-31), counted
// from the most significant bit as in the architecture.
func CRBitMask(i uint8) uint32 {
	return 0x80000000 >> uint32(i&0x1F)
}
