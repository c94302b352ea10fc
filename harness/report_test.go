package harness_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcverify/harness"
)

var _ = Describe("Report formatting", func() {
	Describe("Flags", func() {
		It("should render set and clear bits", func() {
			Expect(harness.Flags(0x50000000, 0xC0000000, 0)).To(Equal("__,GT,__,SO,OV,__"))
			Expect(harness.Flags(0, 0x20000000, 0)).To(Equal("__,__,__,__,__,CA"))
		})

		It("should select the requested field", func() {
			Expect(harness.Flags(0x00000800, 0, 5)).To(Equal("LT,__,__,__,__,__"))
		})
	})

	Describe("FormatResult", func() {
		It("should render register operands", func() {
			tc := &harness.TestCase{Setup: harness.Setup{
				Member:   mustMember("addo."),
				Operands: harness.Operands{RA: 0xa0000000, RB: 0xa0000000},
			}}

			line := harness.FormatResult(tc, harness.State{RD: 0x40000000, CR: 0x50000000, XER: 0xC0000000})

			Expect(line).To(Equal(" a0000000, a0000000 => 40000000 [__,GT,__,SO,OV,__]"))
		})

		It("should render rotate fields as decimals", func() {
			tc := &harness.TestCase{Setup: harness.Setup{
				Member:   mustMember("rlwinm."),
				Operands: harness.Operands{RA: 0x80000000, SH: 1, MB: 0, ME: 31},
			}}

			line := harness.FormatResult(tc, harness.State{RD: 1, CR: 0x40000000})

			Expect(line).To(Equal(" 80000000, 01, 00, 31 => 00000001 [__,GT,__,__,__,__]"))
		})

		It("should render the compare destination field", func() {
			tc := &harness.TestCase{Setup: harness.Setup{
				Member:   mustMember("cmpi"),
				Operands: harness.Operands{CRF: 7, RA: 0xffffffff, Imm: 0x8000},
			}}

			line := harness.FormatResult(tc, harness.State{CR: 0x00000004})

			Expect(line).To(Equal(" 7, ffffffff, 8000 => 00000000 [__,GT,__,__,__,__]"))
		})

		It("should render the CR bit operands, the seed and the fields holding them", func() {
			tc := &harness.TestCase{Setup: harness.Setup{
				Member:   mustMember("crxor"),
				Operands: harness.Operands{CrbD: 0, CrbA: 1, CrbB: 2},
				CR:       0x01200000,
			}}

			line := harness.FormatResult(tc, harness.State{CR: 0xC1200000})

			Expect(line).To(Equal(
				" 01, 02, 01200000: [LT,GT,__,__,__,__], [LT,GT,__,__,__,__] => [LT,GT,__,__,__,__]"))
		})
	})
})
