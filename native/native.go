// Package native runs single instructions on the host processor.
//
// An instruction is executed inside a small generated routine: a prologue
// that loads r10-r12, XER and CR from a register block, the instruction
// itself, and an epilogue that stores r10, CR and XER back. The routine is
// written into an executable page and entered through an assembly
// trampoline.
//
// Only 64-bit PowerPC hosts can be targeted by the Go toolchain, and they
// run user code in 64-bit mode. Instructions whose 32-bit results depend on
// the mode (record forms, carry and overflow) are therefore not executed
// natively; Faithful tells them apart.
package native

import (
	"errors"

	"github.com/sarchlab/ppcverify/insts"
)

// ErrHostUnavailable is returned when the host is not a PowerPC.
var ErrHostUnavailable = errors.New("native: host is not a PowerPC processor")

// Regs is the register block the generated routine reads and writes.
// Field order matches the offsets in Program.
type Regs struct {
	RD  uint32
	RA  uint32
	RB  uint32
	CR  uint32
	XER uint32
}

// Register block offsets.
const (
	offRD  = 0
	offRA  = 4
	offRB  = 8
	offCR  = 12
	offXER = 16
)

// Registers used by the routine. r3 holds the block address.
const (
	regBlock   = 3
	regScratch = 9
	regRD      = 10
	regRA      = 11
	regRB      = 12
)

const (
	opLWZ = 32
	opSTW = 36

	xoMTCRF = 144
	xoMFCR  = 19
	xoMTSPR = 467
	xoMFSPR = 339

	sprXER = 1

	blr = 0x4E800020
)

func lwz(rt uint8, off uint16) uint32 { return insts.EncodeD(opLWZ, rt, regBlock, off) }
func stw(rs uint8, off uint16) uint32 { return insts.EncodeD(opSTW, rs, regBlock, off) }

// spr encodes mtspr/mfspr; the SPR number is stored with its halves
// swapped.
func spr(xo uint16, reg uint8, n uint16) uint32 {
	return insts.EncodeX(31, reg, uint8(n&31), uint8(n>>5), xo, false)
}

// Program returns the routine that executes word against the register
// block addressed by r3 and returns with blr.
func Program(word uint32) []uint32 {
	return []uint32{
		lwz(regRD, offRD),
		lwz(regRA, offRA),
		lwz(regRB, offRB),
		lwz(regScratch, offXER),
		spr(xoMTSPR, regScratch, sprXER),
		lwz(regScratch, offCR),
		insts.EncodeX(31, regScratch, 0, 0, xoMTCRF, false) | 0xFF<<12,
		word,
		stw(regRD, offRD),
		insts.EncodeX(31, regScratch, 0, 0, xoMFCR, false),
		stw(regScratch, offCR),
		spr(xoMFSPR, regScratch, sprXER),
		stw(regScratch, offXER),
		blr,
	}
}

// Faithful reports whether word produces the same low 32 bits of r10, CR
// and architected XER bits on a 64-bit host as on a 32-bit implementation.
func Faithful(word uint32) bool {
	inst := insts.NewDecoder().Decode(word)

	switch inst.Op {
	case insts.OpCRAND, insts.OpCRANDC, insts.OpCREQV, insts.OpCRNAND,
		insts.OpCRNOR, insts.OpCROR, insts.OpCRORC, insts.OpCRXOR:
		return true
	case insts.OpCMP, insts.OpCMPI, insts.OpCMPL, insts.OpCMPLI:
		return inst.L == 0
	case insts.OpADD, insts.OpSUBF, insts.OpNEG, insts.OpADDI, insts.OpADDIS,
		insts.OpMULHW, insts.OpMULHWU, insts.OpMULLW, insts.OpMULLI,
		insts.OpAND, insts.OpANDC, insts.OpEQV, insts.OpNAND, insts.OpNOR,
		insts.OpOR, insts.OpORC, insts.OpXOR, insts.OpORI, insts.OpORIS,
		insts.OpXORI, insts.OpXORIS, insts.OpCNTLZW, insts.OpEXTSB, insts.OpEXTSH,
		insts.OpSLW, insts.OpSRW:
		return !inst.Rc && !inst.OE
	default:
		return false
	}
}

// Mask clears what a 64-bit host may report beyond the 32-bit
// architecture, such as XER[OV32] and XER[CA32].
func Mask(r Regs) Regs {
	r.XER &= insts.XERArchMask
	return r
}
