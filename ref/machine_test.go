package ref_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcverify/insts"
	"github.com/sarchlab/ppcverify/ref"
)

func enc(mnemonic string, f insts.Fields) uint32 {
	return insts.MustLookup(mnemonic).Encode(f)
}

var rrr = insts.Fields{RT: 10, RA: 11, RB: 12}
var srb = insts.Fields{RT: 11, RA: 10, RB: 12}

var _ = Describe("Machine", func() {
	var m *ref.Machine

	BeforeEach(func() {
		m = &ref.Machine{}
	})

	run := func(word uint32) {
		Expect(m.Execute(word)).To(Succeed())
	}

	It("should implement every catalog template", func() {
		for _, t := range insts.Templates() {
			Expect(ref.Supports(t.Encode(rrr))).To(BeTrue(), t.Mnemonic)
		}
	})

	It("should reject unknown words", func() {
		Expect(ref.Supports(insts.SentinelWord)).To(BeFalse())
		Expect(m.Execute(0)).To(MatchError(ref.ErrUnsupported))
	})

	It("should reject mulhw with the OE bit set", func() {
		Expect(ref.Supports(insts.EncodeXO(31, 10, 11, 12, true, 75, false))).To(BeFalse())
	})

	DescribeTable("add and subtract",
		func(mnemonic string, ra, rb, xer, rd, cr, xerOut uint32) {
			m.GPR[11], m.GPR[12], m.XER = ra, rb, xer
			run(enc(mnemonic, rrr))
			Expect(m.GPR[10]).To(Equal(rd))
			Expect(m.CR).To(Equal(cr))
			Expect(m.XER).To(Equal(xerOut))
		},
		Entry("addo. overflow", "addo.", uint32(0xa0000000), uint32(0xa0000000), uint32(0),
			uint32(0x40000000), uint32(0x50000000), uint32(0xc0000000)),
		Entry("addco. carry", "addco.", uint32(0xffffffff), uint32(2), uint32(0),
			uint32(1), uint32(0x40000000), uint32(0x20000000)),
		Entry("adde. with carry in", "adde.", uint32(1), uint32(2), uint32(0x20000000),
			uint32(4), uint32(0x40000000), uint32(0)),
		Entry("addme. with carry in", "addme.", uint32(0), uint32(0), uint32(0x20000000),
			uint32(0), uint32(0x20000000), uint32(0x20000000)),
		Entry("subfc. borrow", "subfc.", uint32(10), uint32(3), uint32(0x20000000),
			uint32(0xfffffff9), uint32(0x80000000), uint32(0)),
		Entry("subfze. zero with carry", "subfze.", uint32(0), uint32(0), uint32(0x20000000),
			uint32(0), uint32(0x20000000), uint32(0x20000000)),
		Entry("nego. most negative", "nego.", uint32(0x80000000), uint32(0), uint32(0),
			uint32(0x80000000), uint32(0x90000000), uint32(0xc0000000)),
		Entry("subfo. keeps SO", "subfo.", uint32(1), uint32(2), uint32(0x80000000),
			uint32(1), uint32(0x50000000), uint32(0x80000000)),
	)

	It("should compute subfic and addic.", func() {
		m.GPR[11] = 5
		run(enc("subfic", insts.Fields{RT: 10, RA: 11, Imm: 12}))
		Expect(m.GPR[10]).To(Equal(uint32(7)))
		Expect(m.XER).To(Equal(uint32(0x20000000)))

		m.GPR[11] = 1
		run(enc("addic.", insts.Fields{RT: 10, RA: 11, Imm: 0xffff}))
		Expect(m.GPR[10]).To(Equal(uint32(0)))
		Expect(m.CR).To(Equal(uint32(0x20000000)))
	})

	It("should multiply", func() {
		m.GPR[11], m.GPR[12] = 0xffffffff, 0xffffffff
		run(enc("mulhwu", rrr))
		Expect(m.GPR[10]).To(Equal(uint32(0xfffffffe)))

		m.GPR[11], m.GPR[12] = 0x10000, 0x10000
		run(enc("mullwo.", rrr))
		Expect(m.GPR[10]).To(Equal(uint32(0)))
		Expect(m.XER).To(Equal(uint32(0xc0000000)))
		Expect(m.CR).To(Equal(uint32(0x30000000)))
	})

	It("should run logical operations from rS into rA", func() {
		m.GPR[11], m.GPR[12] = 0xf0f0f0f0, 0xff00ff00
		run(enc("nand.", srb))
		Expect(m.GPR[10]).To(Equal(uint32(0x0fff0fff)))
		Expect(m.CR).To(Equal(uint32(0x40000000)))

		m.GPR[11] = 0x00010000
		run(enc("cntlzw.", srb))
		Expect(m.GPR[10]).To(Equal(uint32(15)))

		m.GPR[11] = 0x1234
		run(enc("xoris", insts.Fields{RT: 11, RA: 10, Imm: 0xffff}))
		Expect(m.GPR[10]).To(Equal(uint32(0xffff1234)))
	})

	It("should shift with six-bit amounts", func() {
		m.GPR[11], m.GPR[12] = 0x80000001, 1
		run(enc("sraw.", srb))
		Expect(m.GPR[10]).To(Equal(uint32(0xc0000000)))
		Expect(m.XER).To(Equal(uint32(0x20000000)))
		Expect(m.CR).To(Equal(uint32(0x80000000)))

		m.GPR[11], m.GPR[12] = 1, 32
		run(enc("slw", srb))
		Expect(m.GPR[10]).To(Equal(uint32(0)))

		m.GPR[11] = 0x80000000
		run(enc("srawi", insts.Fields{RT: 11, RA: 10, RB: 31}))
		Expect(m.GPR[10]).To(Equal(uint32(0xffffffff)))
		Expect(m.XER).To(Equal(uint32(0)))
	})

	It("should rotate under wrapping masks", func() {
		m.GPR[11] = 0x80000001
		run(enc("rlwinm.", insts.Fields{RT: 11, RA: 10, SH: 31, MB: 0, ME: 31}))
		Expect(m.GPR[10]).To(Equal(uint32(0xc0000000)))

		m.GPR[11] = 0xffffffff
		run(enc("rlwinm.", insts.Fields{RT: 11, RA: 10, SH: 0, MB: 31, ME: 0}))
		Expect(m.GPR[10]).To(Equal(uint32(0x80000001)))

		m.GPR[10], m.GPR[11], m.GPR[12] = 0xaaaaaaaa, 0x12345678, 36
		run(enc("rlwnm.", insts.Fields{RT: 11, RA: 10, RB: 12, MB: 0, ME: 31}))
		Expect(m.GPR[10]).To(Equal(uint32(0x23456781)))
	})

	It("should compare into the selected field", func() {
		m.GPR[11] = 0xffffffff
		run(enc("cmpi", insts.Fields{BF: 3, RA: 11, Imm: 0}))
		Expect(m.CR).To(Equal(uint32(0x00080000)))

		run(enc("cmpli", insts.Fields{BF: 3, RA: 11, Imm: 0}))
		Expect(m.CR).To(Equal(uint32(0x00040000)))
	})

	It("should evaluate crxor on seed 0x01200000", func() {
		m.CR = 0x01200000
		run(enc("crxor", insts.Fields{RT: 0, RA: 1, RB: 2}))
		Expect(m.CR).To(Equal(uint32(0x01200000)))

		m.CR = 0x41200000
		run(enc("crxor", insts.Fields{RT: 0, RA: 1, RB: 2}))
		Expect(m.CR).To(Equal(uint32(0xc1200000)))
	})
})
