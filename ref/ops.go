package ref

import "math/bits"

var (
	primary = map[uint32]opFunc{}
	ext31   = map[uint32]opFunc{}
	ext19   = map[uint32]opFunc{}
)

// xoOp registers an XO-form operation under its extended opcode and, when
// the instruction has one, its OE variant.
func xoOp(xo uint32, hasOE bool, f opFunc) {
	ext31[xo] = f
	if hasOE {
		ext31[xo|0x200] = f
	}
}

func init() {
	// Add and subtract-from. Every member reduces to a + b + carry-in.
	type addSpec struct {
		xo      uint32
		negA    bool
		b       func(m *Machine, w word) uint32
		cin     func(m *Machine) uint32
		writeCA bool
	}
	regB := func(m *Machine, w word) uint32 { return m.GPR[w.rB()] }
	minusOne := func(*Machine, word) uint32 { return 0xffffffff }
	zero := func(*Machine, word) uint32 { return 0 }
	noCarry := func(*Machine) uint32 { return 0 }
	oneCarry := func(*Machine) uint32 { return 1 }
	xerCarry := (*Machine).ca

	for _, s := range []addSpec{
		{266, false, regB, noCarry, false},     // add
		{10, false, regB, noCarry, true},       // addc
		{138, false, regB, xerCarry, true},     // adde
		{234, false, minusOne, xerCarry, true}, // addme
		{202, false, zero, xerCarry, true},     // addze
		{40, true, regB, oneCarry, false},      // subf
		{8, true, regB, oneCarry, true},        // subfc
		{136, true, regB, xerCarry, true},      // subfe
		{232, true, minusOne, xerCarry, true},  // subfme
		{200, true, zero, xerCarry, true},      // subfze
		{104, true, zero, oneCarry, false},     // neg
	} {
		xoOp(s.xo, true, func(m *Machine, w word) {
			a := m.GPR[w.rA()]
			if s.negA {
				a = ^a
			}
			m.add(w, a, s.b(m, w), s.cin(m), s.writeCA, w.oe())
		})
	}

	primary[14] = func(m *Machine, w word) { // addi
		m.GPR[w.rD()] = m.gprOrZero(w.rA()) + w.simm()
	}
	primary[15] = func(m *Machine, w word) { // addis
		m.GPR[w.rD()] = m.gprOrZero(w.rA()) + w.uimm()<<16
	}
	primary[12] = func(m *Machine, w word) { // addic
		m.addImm(w, m.GPR[w.rA()], w.simm(), 0, false)
	}
	primary[13] = func(m *Machine, w word) { // addic.
		m.addImm(w, m.GPR[w.rA()], w.simm(), 0, true)
	}
	primary[8] = func(m *Machine, w word) { // subfic
		m.addImm(w, ^m.GPR[w.rA()], w.simm(), 1, false)
	}

	// Multiply.
	xoOp(75, false, func(m *Machine, w word) { // mulhw
		p := int64(int32(m.GPR[w.rA()])) * int64(int32(m.GPR[w.rB()]))
		m.setRD(w, uint32(p>>32))
	})
	xoOp(11, false, func(m *Machine, w word) { // mulhwu
		hi, _ := bits.Mul32(m.GPR[w.rA()], m.GPR[w.rB()])
		m.setRD(w, hi)
	})
	xoOp(235, true, func(m *Machine, w word) { // mullw
		p := int64(int32(m.GPR[w.rA()])) * int64(int32(m.GPR[w.rB()]))
		if w.oe() {
			m.setOV(p < -1<<31 || p >= 1<<31)
		}
		m.setRD(w, uint32(p))
	})
	primary[7] = func(m *Machine, w word) { // mulli
		m.GPR[w.rD()] = uint32(int32(m.GPR[w.rA()]) * int32(w.simm()))
	}

	// Logical: source rS, destination rA.
	logical := func(xo uint32, f func(s, b uint32) uint32) {
		ext31[xo] = func(m *Machine, w word) {
			m.setRA(w, f(m.GPR[w.rS()], m.GPR[w.rB()]))
		}
	}
	logical(28, func(s, b uint32) uint32 { return s & b })
	logical(60, func(s, b uint32) uint32 { return s &^ b })
	logical(284, func(s, b uint32) uint32 { return ^(s ^ b) })
	logical(476, func(s, b uint32) uint32 { return ^(s & b) })
	logical(124, func(s, b uint32) uint32 { return ^(s | b) })
	logical(444, func(s, b uint32) uint32 { return s | b })
	logical(412, func(s, b uint32) uint32 { return s | ^b })
	logical(316, func(s, b uint32) uint32 { return s ^ b })
	logical(26, func(s, _ uint32) uint32 { return uint32(bits.LeadingZeros32(s)) })
	logical(954, func(s, _ uint32) uint32 { return uint32(int32(s<<24) >> 24) })
	logical(922, func(s, _ uint32) uint32 { return uint32(int32(s<<16) >> 16) })

	immLogical := func(opcd uint32, shift uint, rc bool, f func(s, i uint32) uint32) {
		primary[opcd] = func(m *Machine, w word) {
			r := f(m.GPR[w.rS()], w.uimm()<<shift)
			m.GPR[w.rA()] = r
			if rc {
				m.setField(0, m.cmpField(int32(r) < 0, int32(r) > 0))
			}
		}
	}
	and := func(s, i uint32) uint32 { return s & i }
	or := func(s, i uint32) uint32 { return s | i }
	xor := func(s, i uint32) uint32 { return s ^ i }
	immLogical(28, 0, true, and)   // andi.
	immLogical(29, 16, true, and)  // andis.
	immLogical(24, 0, false, or)   // ori
	immLogical(25, 16, false, or)  // oris
	immLogical(26, 0, false, xor)  // xori
	immLogical(27, 16, false, xor) // xoris

	// Shifts. Amounts are six bits wide; 32 and above shift everything out.
	ext31[24] = func(m *Machine, w word) { // slw
		n := m.GPR[w.rB()] & 63
		m.setRA(w, uint32(uint64(m.GPR[w.rS()])<<n))
	}
	ext31[536] = func(m *Machine, w word) { // srw
		n := m.GPR[w.rB()] & 63
		m.setRA(w, uint32(uint64(m.GPR[w.rS()])>>n))
	}
	ext31[792] = func(m *Machine, w word) { // sraw
		m.sra(w, m.GPR[w.rB()]&63)
	}
	ext31[824] = func(m *Machine, w word) { // srawi
		m.sra(w, w.rB())
	}

	// Rotates.
	primary[20] = func(m *Machine, w word) { // rlwimi
		k := mask(w.mb(), w.me())
		r := bits.RotateLeft32(m.GPR[w.rS()], int(w.rB()))
		m.setRA(w, r&k|m.GPR[w.rA()]&^k)
	}
	primary[21] = func(m *Machine, w word) { // rlwinm
		r := bits.RotateLeft32(m.GPR[w.rS()], int(w.rB()))
		m.setRA(w, r&mask(w.mb(), w.me()))
	}
	primary[23] = func(m *Machine, w word) { // rlwnm
		r := bits.RotateLeft32(m.GPR[w.rS()], int(m.GPR[w.rB()]&31))
		m.setRA(w, r&mask(w.mb(), w.me()))
	}

	// Compares. The L bit must be zero on 32-bit implementations.
	compare := func(f func(m *Machine, w word) (lt, gt bool)) opFunc {
		return func(m *Machine, w word) {
			lt, gt := f(m, w)
			m.setField(w.crfD(), m.cmpField(lt, gt))
		}
	}
	ext31[0] = compare(func(m *Machine, w word) (bool, bool) { // cmp
		a, b := int32(m.GPR[w.rA()]), int32(m.GPR[w.rB()])
		return a < b, a > b
	})
	ext31[32] = compare(func(m *Machine, w word) (bool, bool) { // cmpl
		a, b := m.GPR[w.rA()], m.GPR[w.rB()]
		return a < b, a > b
	})
	primary[11] = compare(func(m *Machine, w word) (bool, bool) { // cmpi
		a, b := int32(m.GPR[w.rA()]), int32(w.simm())
		return a < b, a > b
	})
	primary[10] = compare(func(m *Machine, w word) (bool, bool) { // cmpli
		a, b := m.GPR[w.rA()], w.uimm()
		return a < b, a > b
	})

	// Condition register logical.
	crOp := func(xo uint32, f func(a, b uint32) uint32) {
		ext19[xo] = func(m *Machine, w word) {
			a := m.CR >> (31 - w.crbA()) & 1
			b := m.CR >> (31 - w.crbB()) & 1
			sh := 31 - w.crbD()
			m.CR = m.CR&^(1<<sh) | (f(a, b)&1)<<sh
		}
	}
	crOp(257, func(a, b uint32) uint32 { return a & b })
	crOp(129, func(a, b uint32) uint32 { return a &^ b })
	crOp(289, func(a, b uint32) uint32 { return ^(a ^ b) })
	crOp(225, func(a, b uint32) uint32 { return ^(a & b) })
	crOp(33, func(a, b uint32) uint32 { return ^(a | b) })
	crOp(449, func(a, b uint32) uint32 { return a | b })
	crOp(417, func(a, b uint32) uint32 { return a | ^b })
	crOp(193, func(a, b uint32) uint32 { return a ^ b })
}

func (m *Machine) gprOrZero(r uint32) uint32 {
	if r == 0 {
		return 0
	}
	return m.GPR[r]
}

func (m *Machine) setRD(w word, v uint32) {
	m.GPR[w.rD()] = v
	m.record(w, v)
}

func (m *Machine) setRA(w word, v uint32) {
	m.GPR[w.rA()] = v
	m.record(w, v)
}

func (m *Machine) add(w word, a, b, cin uint32, writeCA, writeOV bool) {
	sum, carry := bits.Add32(a, b, cin)
	if writeCA {
		m.setCA(carry)
	}
	if writeOV {
		m.setOV((a^sum)&(b^sum)>>31 != 0)
	}
	m.setRD(w, sum)
}

func (m *Machine) addImm(w word, a, b, cin uint32, rc bool) {
	sum, carry := bits.Add32(a, b, cin)
	m.setCA(carry)
	m.GPR[w.rD()] = sum
	if rc {
		m.setField(0, m.cmpField(int32(sum) < 0, int32(sum) > 0))
	}
}

func (m *Machine) sra(w word, n uint32) {
	if n > 32 {
		n = 32
	}
	s := m.GPR[w.rS()]
	r := uint32(int64(int32(s)) >> n)
	lost := uint64(s) & (1<<n - 1)
	if int32(s) < 0 && lost != 0 {
		m.setCA(1)
	} else {
		m.setCA(0)
	}
	m.setRA(w, r)
}

// mask returns MASK(mb, me): ones from bit mb through bit me, wrapping past
// bit 31 when mb > me.
func mask(mb, me uint32) uint32 {
	var k uint32
	for i := mb; ; i = (i + 1) & 31 {
		k |= 1 << (31 - i)
		if i == me {
			return k
		}
	}
}
