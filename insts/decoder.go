// Package insts provides 32-bit PowerPC instruction definitions and decoding.
package insts

// Op represents a PowerPC operation. OE and Rc variants share one Op.
type Op uint16

// PowerPC operations.
const (
	OpUnknown Op = iota

	// Arithmetic
	OpADD
	OpADDC
	OpADDE
	OpADDI
	OpADDIC
	OpADDICRc // addic. has its own primary opcode
	OpADDIS
	OpADDME
	OpADDZE
	OpSUBF
	OpSUBFC
	OpSUBFE
	OpSUBFIC
	OpSUBFME
	OpSUBFZE
	OpNEG
	OpMULHW
	OpMULHWU
	OpMULLI
	OpMULLW

	// Logical
	OpAND
	OpANDC
	OpANDIRc
	OpANDISRc
	OpCNTLZW
	OpEQV
	OpEXTSB
	OpEXTSH
	OpNAND
	OpNOR
	OpOR
	OpORC
	OpORI
	OpORIS
	OpXOR
	OpXORI
	OpXORIS

	// Shift and rotate
	OpSLW
	OpSRAW
	OpSRAWI
	OpSRW
	OpRLWIMI
	OpRLWINM
	OpRLWNM

	// Compare
	OpCMP
	OpCMPI
	OpCMPL
	OpCMPLI

	// Condition register logical
	OpCRAND
	OpCRANDC
	OpCREQV
	OpCRNAND
	OpCRNOR
	OpCROR
	OpCRORC
	OpCRXOR
)

// Instruction represents a decoded PowerPC instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Encoding format

	Primary  uint8  // bits [31:26]
	Extended uint16 // extended opcode (9 bits for XO-form, 10 otherwise)

	RT uint8 // RT/RS/BT, bits [25:21]
	RA uint8 // RA/BA, bits [20:16]
	RB uint8 // RB/BB/SH, bits [15:11]
	SH uint8 // shift amount for M-form and srawi
	MB uint8 // mask begin, bits [10:6]
	ME uint8 // mask end, bits [5:1]
	BF uint8 // compare target CR field, bits [25:23]
	L  uint8 // compare length bit, bit 21

	Imm uint16 // D-form immediate, raw

	OE bool // overflow enable
	Rc bool // record CR0
}

// SImm returns the D-form immediate sign-extended to 32 bits.
func (i *Instruction) SImm() uint32 {
	return uint32(int32(int16(i.Imm)))
}

// Decoder decodes 32-bit PowerPC machine words into instructions.
type Decoder struct{}

// NewDecoder creates a new PowerPC instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit PowerPC instruction word.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{}
	d.DecodeInto(word, inst)
	return inst
}

var dFormOps = map[uint8]Op{
	7:  OpMULLI,
	8:  OpSUBFIC,
	12: OpADDIC,
	13: OpADDICRc,
	14: OpADDI,
	15: OpADDIS,
	24: OpORI,
	25: OpORIS,
	26: OpXORI,
	27: OpXORIS,
	28: OpANDIRc,
	29: OpANDISRc,
}

// 10-bit extended opcodes under primary 31.
var xFormOps = map[uint16]Op{
	0:   OpCMP,
	24:  OpSLW,
	26:  OpCNTLZW,
	28:  OpAND,
	32:  OpCMPL,
	60:  OpANDC,
	124: OpNOR,
	284: OpEQV,
	316: OpXOR,
	412: OpORC,
	444: OpOR,
	476: OpNAND,
	536: OpSRW,
	792: OpSRAW,
	824: OpSRAWI,
	922: OpEXTSH,
	954: OpEXTSB,
}

// 9-bit extended opcodes under primary 31 (OE occupies bit 10).
var xoFormOps = map[uint16]Op{
	8:   OpSUBFC,
	10:  OpADDC,
	11:  OpMULHWU,
	40:  OpSUBF,
	75:  OpMULHW,
	104: OpNEG,
	136: OpSUBFE,
	138: OpADDE,
	200: OpSUBFZE,
	202: OpADDZE,
	232: OpSUBFME,
	234: OpADDME,
	235: OpMULLW,
	266: OpADD,
}

// 10-bit extended opcodes under primary 19.
var xlFormOps = map[uint16]Op{
	33:  OpCRNOR,
	129: OpCRANDC,
	193: OpCRXOR,
	225: OpCRNAND,
	257: OpCRAND,
	289: OpCREQV,
	417: OpCRORC,
	449: OpCROR,
}

// DecodeInto decodes word into inst without allocating. Every field is
// extracted regardless of format; Op and Format say which ones are
// meaningful. Unrecognized words leave Op as OpUnknown.
func (d *Decoder) DecodeInto(word uint32, inst *Instruction) {
	*inst = Instruction{
		Primary: uint8(word >> primaryShift),
		RT:      uint8(word>>rtShift) & 0x1F,
		RA:      uint8(word>>raShift) & 0x1F,
		RB:      uint8(word>>rbShift) & 0x1F,
		MB:      uint8(word>>mbShift) & 0x1F,
		ME:      uint8(word>>meShift) & 0x1F,
		BF:      uint8(word>>bfShift) & 0x7,
		L:       uint8(word>>lShift) & 0x1,
		Imm:     uint16(word),
		Rc:      word&1 == 1,
	}
	inst.SH = inst.RB

	switch inst.Primary {
	case 10, 11:
		d.decodeCompareImm(inst)
	case 19:
		d.decodeCRLogical(word, inst)
	case 20, 21:
		inst.Format = FormatM
		inst.Op = OpRLWIMI
		if inst.Primary == 21 {
			inst.Op = OpRLWINM
		}
	case 23:
		inst.Format = FormatMReg
		inst.Op = OpRLWNM
	case 31:
		d.decodeExtended31(word, inst)
	default:
		if op, ok := dFormOps[inst.Primary]; ok {
			inst.Format = FormatD
			inst.Op = op
			inst.Rc = op == OpADDICRc || op == OpANDIRc || op == OpANDISRc
		}
	}
}

// decodeCompareImm decodes cmpi (11) and cmpli (10).
func (d *Decoder) decodeCompareImm(inst *Instruction) {
	inst.Format = FormatDCmp
	inst.Rc = false
	if inst.Primary == 11 {
		inst.Op = OpCMPI
	} else {
		inst.Op = OpCMPLI
	}
}

// decodeCRLogical decodes the XL-form condition register logical group.
func (d *Decoder) decodeCRLogical(word uint32, inst *Instruction) {
	ext := uint16(word>>xoShift) & 0x3FF
	op, ok := xlFormOps[ext]
	if !ok {
		return
	}
	inst.Format = FormatXL
	inst.Op = op
	inst.Extended = ext
	inst.Rc = false
}

// decodeExtended31 decodes the X-form and XO-form groups under primary 31.
// X-form opcodes are tried first; none of them collide with an XO-form
// opcode with OE clear or set.
func (d *Decoder) decodeExtended31(word uint32, inst *Instruction) {
	ext10 := uint16(word>>xoShift) & 0x3FF
	if op, ok := xFormOps[ext10]; ok {
		inst.Op = op
		inst.Extended = ext10
		inst.Format = FormatX
		if op == OpCMP || op == OpCMPL {
			inst.Format = FormatXCmp
			inst.Rc = false
		}
		return
	}

	ext9 := ext10 & 0x1FF
	if op, ok := xoFormOps[ext9]; ok {
		inst.Op = op
		inst.Extended = ext9
		inst.Format = FormatXO
		inst.OE = (word>>oeShift)&1 == 1
	}
}
