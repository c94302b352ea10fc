// Package ref is a reference model of the 32-bit PowerPC user-level
// fixed-point instruction set. It shares no code with the emulator: words
// are decoded from their raw bit fields and executed through lookup tables
// keyed by opcode, with the arithmetic done by math/bits.
//
// The harness uses it as the expected-result oracle wherever real 32-bit
// PowerPC hardware is not available.
package ref

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for words the model does not implement.
var ErrUnsupported = errors.New("unsupported instruction")

// XER bits.
const (
	xerSO = 1 << 31
	xerOV = 1 << 30
	xerCA = 1 << 29
)

// Machine holds the architected fixed-point state.
type Machine struct {
	GPR [32]uint32
	CR  uint32
	XER uint32
}

type opFunc func(m *Machine, w word)

// word is a raw instruction with field accessors.
type word uint32

func (w word) opcd() uint32 { return uint32(w) >> 26 }
func (w word) rS() uint32   { return uint32(w) >> 21 & 31 }
func (w word) rA() uint32   { return uint32(w) >> 16 & 31 }
func (w word) rB() uint32   { return uint32(w) >> 11 & 31 }
func (w word) crfD() uint32 { return uint32(w) >> 23 & 7 }
func (w word) mb() uint32   { return uint32(w) >> 6 & 31 }
func (w word) me() uint32   { return uint32(w) >> 1 & 31 }
func (w word) xo() uint32   { return uint32(w) >> 1 & 0x3ff }
func (w word) oe() bool     { return w&(1<<10) != 0 }
func (w word) rc() bool     { return w&1 != 0 }
func (w word) uimm() uint32 { return uint32(w) & 0xffff }
func (w word) simm() uint32 { return uint32(int32(int16(w))) }

// rD and the other aliases name the same bits in different instruction
// forms.
func (w word) rD() uint32   { return w.rS() }
func (w word) crbD() uint32 { return w.rS() }
func (w word) crbA() uint32 { return w.rA() }
func (w word) crbB() uint32 { return w.rB() }

func lookup(w word) opFunc {
	switch w.opcd() {
	case 19:
		return ext19[w.xo()]
	case 31:
		return ext31[w.xo()]
	default:
		return primary[w.opcd()]
	}
}

// Supports reports whether the model implements raw.
func Supports(raw uint32) bool {
	return lookup(word(raw)) != nil
}

// Execute runs one instruction against the machine state.
func (m *Machine) Execute(raw uint32) error {
	w := word(raw)
	op := lookup(w)
	if op == nil {
		return fmt.Errorf("ref: %08x: %w", raw, ErrUnsupported)
	}
	op(m, w)
	return nil
}

func (m *Machine) ca() uint32 {
	return m.XER >> 29 & 1
}

func (m *Machine) setCA(c uint32) {
	m.XER = m.XER&^xerCA | (c&1)<<29
}

func (m *Machine) setOV(ov bool) {
	if ov {
		m.XER |= xerOV | xerSO
		return
	}
	m.XER &^= xerOV
}

// setField writes a 4-bit value into CR field n.
func (m *Machine) setField(n, v uint32) {
	sh := 28 - 4*n
	m.CR = m.CR&^(0xf<<sh) | v<<sh
}

// cmpField returns the LT/GT/EQ/SO nibble.
func (m *Machine) cmpField(lt, gt bool) uint32 {
	v := m.XER >> 31
	switch {
	case lt:
		v |= 8
	case gt:
		v |= 4
	default:
		v |= 2
	}
	return v
}

func (m *Machine) record(w word, v uint32) {
	if w.rc() {
		m.setField(0, m.cmpField(int32(v) < 0, int32(v) > 0))
	}
}
