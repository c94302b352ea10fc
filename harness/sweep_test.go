package harness_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcverify/harness"
)

func collect(shape harness.Shape) []harness.Case {
	var cases []harness.Case
	for c := range harness.Sweep(shape) {
		cases = append(cases, c)
	}
	return cases
}

var _ = Describe("Sweep", func() {
	DescribeTable("case counts",
		func(shape harness.Shape, n int) {
			Expect(harness.SweepLen(shape)).To(Equal(n))
		},
		Entry("RRR", harness.ShapeRRR, 89),
		Entry("RR", harness.ShapeRR, 13),
		Entry("RRI", harness.ShapeRRI, 96),
		Entry("RRK", harness.ShapeRRK, 96),
		Entry("RRS", harness.ShapeRRS, 64),
		Entry("RRIII", harness.ShapeRRIII, 512),
		Entry("RRRII", harness.ShapeRRRII, 4096),
		Entry("CRR", harness.ShapeCRR, 72),
		Entry("CRI", harness.ShapeCRI, 96),
		Entry("CRK", harness.ShapeCRK, 96),
		Entry("CCC", harness.ShapeCCC, 29),
	)

	It("should sweep the coarse grid before the fine one", func() {
		cases := collect(harness.ShapeRRR)

		Expect(cases[0].Operands).To(Equal(harness.Operands{RA: 0, RB: 0}))
		Expect(cases[1].Operands).To(Equal(harness.Operands{RA: 0, RB: 0x20000000}))
		Expect(cases[63].Operands).To(Equal(harness.Operands{RA: 0xe0000000, RB: 0xe0000000}))
		Expect(cases[64].Operands).To(Equal(harness.Operands{RA: 0xfffffffe, RB: 0xfffffffe}))
		Expect(cases[88].Operands).To(Equal(harness.Operands{RA: 2, RB: 2}))
	})

	It("should end the immediate list with the small values", func() {
		cases := collect(harness.ShapeRRI)

		Expect(cases[8].Operands.Imm).To(Equal(uint16(0xfffe)))
		Expect(cases[11].Operands.Imm).To(Equal(uint16(0x0002)))
		Expect(cases[12].Operands.RA).To(Equal(uint32(0x20000000)))
	})

	It("should seed CR logical cases from fixed words", func() {
		cases := collect(harness.ShapeCCC)

		Expect(cases[0].HasCR).To(BeTrue())
		Expect(cases[0].CR).To(Equal(uint32(0xdeadbeef)))
		Expect(cases[1].CR).To(Equal(uint32(0x01200000)))
		Expect(cases[28].CR).To(Equal(uint32(0x19c00000)))
		for _, c := range cases {
			Expect(c.Operands.CrbD).To(Equal(uint8(0)))
			Expect(c.Operands.CrbA).To(Equal(uint8(1)))
			Expect(c.Operands.CrbB).To(Equal(uint8(2)))
		}
	})

	It("should cover every compare field", func() {
		seen := map[uint8]bool{}
		for _, c := range collect(harness.ShapeCRI) {
			seen[c.Operands.CRF] = true
		}
		Expect(seen).To(HaveLen(8))
	})

	It("should stop when the consumer stops", func() {
		n := 0
		for range harness.Sweep(harness.ShapeRRRII) {
			n++
			if n == 3 {
				break
			}
		}
		Expect(n).To(Equal(3))
	})
})
