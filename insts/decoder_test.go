package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcverify/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("XO-form arithmetic", func() {
		// add. r10,r11,r12 -> 0x7D4B6215
		It("should decode add. r10,r11,r12", func() {
			inst := decoder.Decode(0x7D4B6215)

			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Format).To(Equal(insts.FormatXO))
			Expect(inst.RT).To(Equal(uint8(10)))
			Expect(inst.RA).To(Equal(uint8(11)))
			Expect(inst.RB).To(Equal(uint8(12)))
			Expect(inst.OE).To(BeFalse())
			Expect(inst.Rc).To(BeTrue())
		})

		// subfco. r10,r11,r12 -> OE=1, XO=8
		It("should decode subfco. with OE set", func() {
			inst := decoder.Decode(insts.EncodeXO(31, 10, 11, 12, true, 8, true))

			Expect(inst.Op).To(Equal(insts.OpSUBFC))
			Expect(inst.OE).To(BeTrue())
			Expect(inst.Extended).To(Equal(uint16(8)))
		})
	})

	Describe("X-form", func() {
		// srw r10,r11,r12 has XO=536, which also reads as OE=1 with XO9=24
		It("should prefer the X-form srw over an XO reading", func() {
			inst := decoder.Decode(insts.EncodeX(31, 11, 10, 12, 536, false))

			Expect(inst.Op).To(Equal(insts.OpSRW))
			Expect(inst.Format).To(Equal(insts.FormatX))
			Expect(inst.OE).To(BeFalse())
		})

		It("should decode srawi with its shift amount in SH", func() {
			inst := decoder.Decode(insts.EncodeX(31, 11, 10, 29, 824, true))

			Expect(inst.Op).To(Equal(insts.OpSRAWI))
			Expect(inst.SH).To(Equal(uint8(29)))
			Expect(inst.Rc).To(BeTrue())
		})

		It("should decode cmpl as a compare", func() {
			inst := decoder.Decode(insts.EncodeXCmp(31, 5, 0, 11, 12, 32))

			Expect(inst.Op).To(Equal(insts.OpCMPL))
			Expect(inst.Format).To(Equal(insts.FormatXCmp))
			Expect(inst.BF).To(Equal(uint8(5)))
		})
	})

	Describe("D-form", func() {
		// addic. r10,r11,-2 -> primary 13
		It("should decode addic. and record CR0", func() {
			inst := decoder.Decode(insts.EncodeD(13, 10, 11, 0xFFFE))

			Expect(inst.Op).To(Equal(insts.OpADDICRc))
			Expect(inst.Rc).To(BeTrue())
			Expect(inst.SImm()).To(Equal(uint32(0xFFFFFFFE)))
		})

		It("should not treat a set low immediate bit as Rc for addi", func() {
			inst := decoder.Decode(insts.EncodeD(14, 10, 11, 0x0001))

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Rc).To(BeFalse())
		})

		It("should decode cmpli cr3", func() {
			inst := decoder.Decode(insts.EncodeDCmp(10, 3, 0, 11, 0x8000))

			Expect(inst.Op).To(Equal(insts.OpCMPLI))
			Expect(inst.BF).To(Equal(uint8(3)))
			Expect(inst.Imm).To(Equal(uint16(0x8000)))
		})
	})

	Describe("M-form", func() {
		It("should decode rlwinm. r10,r11,31,0,31", func() {
			inst := decoder.Decode(0x556AF83F)

			Expect(inst.Op).To(Equal(insts.OpRLWINM))
			Expect(inst.RT).To(Equal(uint8(11)))
			Expect(inst.RA).To(Equal(uint8(10)))
			Expect(inst.SH).To(Equal(uint8(31)))
			Expect(inst.MB).To(Equal(uint8(0)))
			Expect(inst.ME).To(Equal(uint8(31)))
			Expect(inst.Rc).To(BeTrue())
		})
	})

	Describe("XL-form", func() {
		It("should decode crxor 0,1,2", func() {
			inst := decoder.Decode(0x4C011182)

			Expect(inst.Op).To(Equal(insts.OpCRXOR))
			Expect(inst.RT).To(Equal(uint8(0)))
			Expect(inst.RA).To(Equal(uint8(1)))
			Expect(inst.RB).To(Equal(uint8(2)))
		})
	})

	Describe("Unknown words", func() {
		It("should leave the sentinel undecoded", func() {
			inst := decoder.Decode(insts.SentinelWord)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Primary).To(Equal(insts.SentinelPrimary))
		})

		It("should not decode an unassigned primary-31 extended opcode", func() {
			inst := decoder.Decode(insts.EncodeX(31, 1, 2, 3, 1023, false))
			Expect(inst.Op).To(Equal(insts.OpUnknown))
		})
	})
})
