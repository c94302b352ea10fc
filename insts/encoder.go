package insts

// Field widths and bit positions, counted from the least significant bit.
// PowerPC manuals number bits from the most significant end; bit n in the
// manual is bit 31-n here.
const (
	primaryShift = 26
	rtShift      = 21
	raShift      = 16
	rbShift      = 11
	oeShift      = 10
	mbShift      = 6
	meShift      = 1
	xoShift      = 1
	bfShift      = 23
	lShift       = 21
)

// SentinelWord is the primary-opcode-6 word appended after an instruction
// under test. Opcode 6 is unassigned on 32-bit implementations.
const SentinelWord uint32 = 0x18000000

// SentinelPrimary is the primary opcode of SentinelWord.
const SentinelPrimary uint8 = 6

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatD              // primary | RT | RA | 16-bit immediate
	FormatX              // primary | RT | RA | RB | 10-bit XO | Rc
	FormatXO             // primary | RT | RA | RB | OE | 9-bit XO | Rc
	FormatM              // primary | RS | RA | SH | MB | ME | Rc
	FormatMReg           // primary | RS | RA | RB | MB | ME | Rc
	FormatXCmp           // primary | BF | L | RA | RB | 10-bit XO
	FormatDCmp           // primary | BF | L | RA | 16-bit immediate
	FormatXL             // primary | BT | BA | BB | 10-bit XO | LK
)

var formatNames = [...]string{
	FormatUnknown: "unknown",
	FormatD:       "D",
	FormatX:       "X",
	FormatXO:      "XO",
	FormatM:       "M",
	FormatMReg:    "M(reg)",
	FormatXCmp:    "X(cmp)",
	FormatDCmp:    "D(cmp)",
	FormatXL:      "XL",
}

// String returns the format's conventional name.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// Fields holds the operand values of an instruction in any format. Each
// format reads only the fields it declares; the rest are ignored.
type Fields struct {
	Primary  uint8
	Extended uint16

	RT uint8 // RT, RS or BT depending on the format
	RA uint8 // RA or BA
	RB uint8 // RB or BB
	SH uint8
	MB uint8
	ME uint8
	BF uint8 // condition register field for compares
	L  uint8

	Imm uint16

	OE bool
	Rc bool
}

func mask(width uint, v uint32) uint32 {
	return v & (1<<width - 1)
}

func bit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// EncodeD encodes a D-form instruction: primary | RT | RA | imm16.
func EncodeD(primary, rt, ra uint8, imm uint16) uint32 {
	return mask(6, uint32(primary))<<primaryShift |
		mask(5, uint32(rt))<<rtShift |
		mask(5, uint32(ra))<<raShift |
		uint32(imm)
}

// EncodeX encodes an X-form instruction: primary | RT | RA | RB | XO | Rc.
func EncodeX(primary, rt, ra, rb uint8, xo uint16, rc bool) uint32 {
	return mask(6, uint32(primary))<<primaryShift |
		mask(5, uint32(rt))<<rtShift |
		mask(5, uint32(ra))<<raShift |
		mask(5, uint32(rb))<<rbShift |
		mask(10, uint32(xo))<<xoShift |
		bit(rc)
}

// EncodeXO encodes an XO-form instruction: primary | RT | RA | RB | OE | XO | Rc.
func EncodeXO(primary, rt, ra, rb uint8, oe bool, xo uint16, rc bool) uint32 {
	return mask(6, uint32(primary))<<primaryShift |
		mask(5, uint32(rt))<<rtShift |
		mask(5, uint32(ra))<<raShift |
		mask(5, uint32(rb))<<rbShift |
		bit(oe)<<oeShift |
		mask(9, uint32(xo))<<xoShift |
		bit(rc)
}

// EncodeM encodes an M-form rotate with an immediate shift amount:
// primary | RS | RA | SH | MB | ME | Rc.
func EncodeM(primary, rs, ra, sh, mb, me uint8, rc bool) uint32 {
	return mask(6, uint32(primary))<<primaryShift |
		mask(5, uint32(rs))<<rtShift |
		mask(5, uint32(ra))<<raShift |
		mask(5, uint32(sh))<<rbShift |
		mask(5, uint32(mb))<<mbShift |
		mask(5, uint32(me))<<meShift |
		bit(rc)
}

// EncodeMReg encodes an M-form rotate whose shift amount comes from RB.
func EncodeMReg(primary, rs, ra, rb, mb, me uint8, rc bool) uint32 {
	return EncodeM(primary, rs, ra, rb, mb, me, rc)
}

// EncodeXCmp encodes a register-register compare: primary | BF | L | RA | RB | XO.
func EncodeXCmp(primary, bf, l, ra, rb uint8, xo uint16) uint32 {
	return mask(6, uint32(primary))<<primaryShift |
		mask(3, uint32(bf))<<bfShift |
		mask(1, uint32(l))<<lShift |
		mask(5, uint32(ra))<<raShift |
		mask(5, uint32(rb))<<rbShift |
		mask(10, uint32(xo))<<xoShift
}

// EncodeDCmp encodes a register-immediate compare: primary | BF | L | RA | imm16.
func EncodeDCmp(primary, bf, l, ra uint8, imm uint16) uint32 {
	return mask(6, uint32(primary))<<primaryShift |
		mask(3, uint32(bf))<<bfShift |
		mask(1, uint32(l))<<lShift |
		mask(5, uint32(ra))<<raShift |
		uint32(imm)
}

// EncodeXL encodes a condition register logical instruction:
// primary | BT | BA | BB | XO | 0.
func EncodeXL(primary, bt, ba, bb uint8, xo uint16) uint32 {
	return EncodeX(primary, bt, ba, bb, xo, false)
}

// Encode packs f according to format. Encoding is total: operands wider
// than their field are truncated, and FormatUnknown encodes to zero.
func Encode(format Format, f Fields) uint32 {
	switch format {
	case FormatD:
		return EncodeD(f.Primary, f.RT, f.RA, f.Imm)
	case FormatX:
		return EncodeX(f.Primary, f.RT, f.RA, f.RB, f.Extended, f.Rc)
	case FormatXO:
		return EncodeXO(f.Primary, f.RT, f.RA, f.RB, f.OE, f.Extended, f.Rc)
	case FormatM:
		return EncodeM(f.Primary, f.RT, f.RA, f.SH, f.MB, f.ME, f.Rc)
	case FormatMReg:
		return EncodeMReg(f.Primary, f.RT, f.RA, f.RB, f.MB, f.ME, f.Rc)
	case FormatXCmp:
		return EncodeXCmp(f.Primary, f.BF, f.L, f.RA, f.RB, f.Extended)
	case FormatDCmp:
		return EncodeDCmp(f.Primary, f.BF, f.L, f.RA, f.Imm)
	case FormatXL:
		return EncodeXL(f.Primary, f.RT, f.RA, f.RB, f.Extended)
	default:
		return 0
	}
}
