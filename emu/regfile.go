// Package emu provides functional 32-bit PowerPC emulation.
package emu

import "github.com/sarchlab/ppcverify/insts"

// RegFile represents the PowerPC user-level fixed-point register file.
type RegFile struct {
	// GPR holds general-purpose registers r0-r31.
	GPR [32]uint32

	// CR is the condition register: eight 4-bit fields, field 0 in the
	// most significant nibble.
	CR uint32

	// XER is the integer exception register.
	XER uint32

	// PC is the program counter.
	PC uint32
}

// ReadReg reads a general-purpose register.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	return r.GPR[reg&0x1F]
}

// ReadRegOrZero reads a register, treating r0 as the literal value 0.
// This is the (RA|0) operand of addi and addis.
func (r *RegFile) ReadRegOrZero(reg uint8) uint32 {
	if reg == 0 {
		return 0
	}
	return r.GPR[reg&0x1F]
}

// WriteReg writes a general-purpose register.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	r.GPR[reg&0x1F] = value
}

// CA reports the XER carry bit as 0 or 1.
func (r *RegFile) CA() uint32 {
	if r.XER&insts.XERCA != 0 {
		return 1
	}
	return 0
}

// SetCA sets or clears the XER carry bit.
func (r *RegFile) SetCA(carry bool) {
	if carry {
		r.XER |= insts.XERCA
	} else {
		r.XER &^= insts.XERCA
	}
}

// SetOV sets or clears XER[OV]. Setting OV also sets the sticky SO bit.
func (r *RegFile) SetOV(overflow bool) {
	if overflow {
		r.XER |= insts.XEROV | insts.XERSO
	} else {
		r.XER &^= insts.XEROV
	}
}

// SetCRField replaces condition register field n with the low four bits of
// value.
func (r *RegFile) SetCRField(n uint8, value uint8) {
	shift := 28 - 4*uint32(n&7)
	r.CR = r.CR&^insts.CRFieldMask(n) | uint32(value&0xF)<<shift
}

// CRBit reports condition register bit i.
func (r *RegFile) CRBit(i uint8) bool {
	return r.CR&insts.CRBitMask(i) != 0
}

// SetCRBit sets or clears condition register bit i.
func (r *RegFile) SetCRBit(i uint8, value bool) {
	if value {
		r.CR |= insts.CRBitMask(i)
	} else {
		r.CR &^= insts.CRBitMask(i)
	}
}
