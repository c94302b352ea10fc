// Package emu provides functional 32-bit PowerPC emulation.
package emu

import "github.com/sarchlab/ppcverify/insts"

// ALU implements PowerPC fixed-point arithmetic, logical, shift, rotate and
// compare operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// addWithCarry computes op1 + op2 + carryIn and reports the carry out of
// bit 0 and signed overflow.
func addWithCarry(op1, op2, carryIn uint32) (result uint32, carry, overflow bool) {
	wide := uint64(op1) + uint64(op2) + uint64(carryIn)
	result = uint32(wide)
	carry = wide>>32 != 0

	// Overflow occurs when both addends have the same sign and the result
	// has the other sign.
	op1Sign := op1 >> 31
	op2Sign := op2 >> 31
	resultSign := result >> 31
	overflow = op1Sign == op2Sign && op1Sign != resultSign
	return result, carry, overflow
}

// recordCR0 sets CR0 from a signed comparison of result against zero and
// copies XER[SO].
func (a *ALU) recordCR0(result uint32) {
	a.regFile.SetCRField(0, a.compareField(int64(int32(result)), 0))
}

// compareField builds a CR field value for lhs compared with rhs.
func (a *ALU) compareField(lhs, rhs int64) uint8 {
	var field uint8
	switch {
	case lhs < rhs:
		field = 0x8
	case lhs > rhs:
		field = 0x4
	default:
		field = 0x2
	}
	if a.regFile.XER&insts.XERSO != 0 {
		field |= 0x1
	}
	return field
}

// arith writes op1 + op2 + carryIn to rt and applies the CA, OV and CR0
// updates requested.
func (a *ALU) arith(rt uint8, op1, op2, carryIn uint32, setCA, oe, rc bool) {
	result, carry, overflow := addWithCarry(op1, op2, carryIn)
	a.regFile.WriteReg(rt, result)

	if setCA {
		a.regFile.SetCA(carry)
	}
	if oe {
		a.regFile.SetOV(overflow)
	}
	if rc {
		a.recordCR0(result)
	}
}

// Add executes the add/subtract-from family. Subtraction is carried out as
// ^RA + operand + carry-in.
func (a *ALU) Add(inst *insts.Instruction) {
	ra := a.regFile.ReadReg(inst.RA)
	rb := a.regFile.ReadReg(inst.RB)
	ca := a.regFile.CA()

	switch inst.Op {
	case insts.OpADD:
		a.arith(inst.RT, ra, rb, 0, false, inst.OE, inst.Rc)
	case insts.OpADDC:
		a.arith(inst.RT, ra, rb, 0, true, inst.OE, inst.Rc)
	case insts.OpADDE:
		a.arith(inst.RT, ra, rb, ca, true, inst.OE, inst.Rc)
	case insts.OpADDME:
		a.arith(inst.RT, ra, 0xFFFFFFFF, ca, true, inst.OE, inst.Rc)
	case insts.OpADDZE:
		a.arith(inst.RT, ra, 0, ca, true, inst.OE, inst.Rc)
	case insts.OpSUBF:
		a.arith(inst.RT, ^ra, rb, 1, false, inst.OE, inst.Rc)
	case insts.OpSUBFC:
		a.arith(inst.RT, ^ra, rb, 1, true, inst.OE, inst.Rc)
	case insts.OpSUBFE:
		a.arith(inst.RT, ^ra, rb, ca, true, inst.OE, inst.Rc)
	case insts.OpSUBFME:
		a.arith(inst.RT, ^ra, 0xFFFFFFFF, ca, true, inst.OE, inst.Rc)
	case insts.OpSUBFZE:
		a.arith(inst.RT, ^ra, 0, ca, true, inst.OE, inst.Rc)
	case insts.OpNEG:
		a.arith(inst.RT, ^ra, 0, 1, false, inst.OE, inst.Rc)
	}
}

// AddImm executes the D-form add/subtract immediates.
func (a *ALU) AddImm(inst *insts.Instruction) {
	simm := inst.SImm()

	switch inst.Op {
	case insts.OpADDI:
		a.regFile.WriteReg(inst.RT, a.regFile.ReadRegOrZero(inst.RA)+simm)
	case insts.OpADDIS:
		a.regFile.WriteReg(inst.RT, a.regFile.ReadRegOrZero(inst.RA)+simm<<16)
	case insts.OpADDIC:
		a.arith(inst.RT, a.regFile.ReadReg(inst.RA), simm, 0, true, false, false)
	case insts.OpADDICRc:
		a.arith(inst.RT, a.regFile.ReadReg(inst.RA), simm, 0, true, false, true)
	case insts.OpSUBFIC:
		a.arith(inst.RT, ^a.regFile.ReadReg(inst.RA), simm, 1, true, false, false)
	}
}

// Multiply executes mulhw, mulhwu, mullw and mulli.
func (a *ALU) Multiply(inst *insts.Instruction) {
	ra := a.regFile.ReadReg(inst.RA)

	var result uint32
	switch inst.Op {
	case insts.OpMULLI:
		result = ra * inst.SImm()
		a.regFile.WriteReg(inst.RT, result)
		return
	case insts.OpMULHW:
		product := int64(int32(ra)) * int64(int32(a.regFile.ReadReg(inst.RB)))
		result = uint32(uint64(product) >> 32)
	case insts.OpMULHWU:
		product := uint64(ra) * uint64(a.regFile.ReadReg(inst.RB))
		result = uint32(product >> 32)
	case insts.OpMULLW:
		product := int64(int32(ra)) * int64(int32(a.regFile.ReadReg(inst.RB)))
		result = uint32(product)
		if inst.OE {
			a.regFile.SetOV(product != int64(int32(result)))
		}
	}

	a.regFile.WriteReg(inst.RT, result)
	if inst.Rc {
		a.recordCR0(result)
	}
}

// Logical executes the logical group. Sources are RS (the RT field) and RB
// or an immediate; the destination is RA.
func (a *ALU) Logical(inst *insts.Instruction) {
	rs := a.regFile.ReadReg(inst.RT)
	rb := a.regFile.ReadReg(inst.RB)
	uimm := uint32(inst.Imm)

	var result uint32
	switch inst.Op {
	case insts.OpAND:
		result = rs & rb
	case insts.OpANDC:
		result = rs &^ rb
	case insts.OpANDIRc:
		result = rs & uimm
	case insts.OpANDISRc:
		result = rs & (uimm << 16)
	case insts.OpCNTLZW:
		result = countLeadingZeros(rs)
	case insts.OpEQV:
		result = ^(rs ^ rb)
	case insts.OpEXTSB:
		result = uint32(int32(int8(rs)))
	case insts.OpEXTSH:
		result = uint32(int32(int16(rs)))
	case insts.OpNAND:
		result = ^(rs & rb)
	case insts.OpNOR:
		result = ^(rs | rb)
	case insts.OpOR:
		result = rs | rb
	case insts.OpORC:
		result = rs | ^rb
	case insts.OpORI:
		result = rs | uimm
	case insts.OpORIS:
		result = rs | (uimm << 16)
	case insts.OpXOR:
		result = rs ^ rb
	case insts.OpXORI:
		result = rs ^ uimm
	case insts.OpXORIS:
		result = rs ^ (uimm << 16)
	}

	a.regFile.WriteReg(inst.RA, result)
	if inst.Rc {
		a.recordCR0(result)
	}
}

func countLeadingZeros(v uint32) uint32 {
	n := uint32(0)
	for mask := uint32(0x80000000); mask != 0 && v&mask == 0; mask >>= 1 {
		n++
	}
	return n
}

// Shift executes slw, srw, sraw and srawi.
func (a *ALU) Shift(inst *insts.Instruction) {
	rs := a.regFile.ReadReg(inst.RT)

	var result uint32
	switch inst.Op {
	case insts.OpSLW:
		n := a.regFile.ReadReg(inst.RB) & 0x3F
		if n < 32 {
			result = rs << n
		}
	case insts.OpSRW:
		n := a.regFile.ReadReg(inst.RB) & 0x3F
		if n < 32 {
			result = rs >> n
		}
	case insts.OpSRAW:
		result = a.shiftRightAlgebraic(rs, a.regFile.ReadReg(inst.RB)&0x3F)
	case insts.OpSRAWI:
		result = a.shiftRightAlgebraic(rs, uint32(inst.SH))
	}

	a.regFile.WriteReg(inst.RA, result)
	if inst.Rc {
		a.recordCR0(result)
	}
}

// shiftRightAlgebraic shifts rs right by n (0-63), sign-filling, and sets
// CA when a negative value lost any one bits.
func (a *ALU) shiftRightAlgebraic(rs, n uint32) uint32 {
	negative := int32(rs) < 0
	if n >= 32 {
		a.regFile.SetCA(negative)
		if negative {
			return 0xFFFFFFFF
		}
		return 0
	}
	shiftedOut := rs & (uint32(1)<<n - 1)
	a.regFile.SetCA(negative && shiftedOut != 0)
	return uint32(int32(rs) >> n)
}

// rotateLeft rotates a 32-bit value left by n (0-31).
func rotateLeft(v uint32, n uint32) uint32 {
	n &= 31
	if n == 0 {
		return v
	}
	return v<<n | v>>(32-n)
}

// rotateMask builds MASK(mb, me). When mb > me the mask wraps around.
func rotateMask(mb, me uint8) uint32 {
	begin := uint32(0xFFFFFFFF) >> (mb & 31)
	end := uint32(0xFFFFFFFF) << (31 - (me & 31))
	if mb <= me {
		return begin & end
	}
	return begin | end
}

// Rotate executes rlwimi, rlwinm and rlwnm.
func (a *ALU) Rotate(inst *insts.Instruction) {
	rs := a.regFile.ReadReg(inst.RT)
	m := rotateMask(inst.MB, inst.ME)

	var result uint32
	switch inst.Op {
	case insts.OpRLWINM:
		result = rotateLeft(rs, uint32(inst.SH)) & m
	case insts.OpRLWNM:
		result = rotateLeft(rs, a.regFile.ReadReg(inst.RB)) & m
	case insts.OpRLWIMI:
		rotated := rotateLeft(rs, uint32(inst.SH))
		result = rotated&m | a.regFile.ReadReg(inst.RA)&^m
	}

	a.regFile.WriteReg(inst.RA, result)
	if inst.Rc {
		a.recordCR0(result)
	}
}

// Compare executes cmp, cmpi, cmpl and cmpli into CR field BF.
func (a *ALU) Compare(inst *insts.Instruction) {
	ra := a.regFile.ReadReg(inst.RA)

	var field uint8
	switch inst.Op {
	case insts.OpCMP:
		field = a.compareField(int64(int32(ra)), int64(int32(a.regFile.ReadReg(inst.RB))))
	case insts.OpCMPI:
		field = a.compareField(int64(int32(ra)), int64(int32(inst.SImm())))
	case insts.OpCMPL:
		field = a.compareField(int64(ra), int64(a.regFile.ReadReg(inst.RB)))
	case insts.OpCMPLI:
		field = a.compareField(int64(ra), int64(inst.Imm))
	}

	a.regFile.SetCRField(inst.BF, field)
}

// CRLogical executes the condition register logical operations:
// CR[BT] = CR[BA] op CR[BB].
func (a *ALU) CRLogical(inst *insts.Instruction) {
	x := a.regFile.CRBit(inst.RA)
	y := a.regFile.CRBit(inst.RB)

	var result bool
	switch inst.Op {
	case insts.OpCRAND:
		result = x && y
	case insts.OpCRANDC:
		result = x && !y
	case insts.OpCREQV:
		result = x == y
	case insts.OpCRNAND:
		result = !(x && y)
	case insts.OpCRNOR:
		result = !(x || y)
	case insts.OpCROR:
		result = x || y
	case insts.OpCRORC:
		result = x || !y
	case insts.OpCRXOR:
		result = x != y
	}

	a.regFile.SetCRBit(inst.RT, result)
}
