package harness_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcverify/harness"
	"github.com/sarchlab/ppcverify/native"
)

func setup(mnemonic string, op harness.Operands, xer uint32) harness.Setup {
	m := mustMember(mnemonic)
	return harness.Setup{Member: m, Word: m.Encode(op), Operands: op, XER: xer}
}

var _ = Describe("Oracles", func() {
	Describe("Reference", func() {
		ref := harness.Reference{}

		It("should support every catalog member", func() {
			for _, f := range harness.Catalog() {
				for _, m := range f.Members {
					Expect(ref.Supports(m)).To(BeTrue(), m.Mnemonic())
				}
			}
		})

		It("should overflow adding 0xa0000000 to itself", func() {
			s := setup("addo.", harness.Operands{RA: 0xa0000000, RB: 0xa0000000}, 0)

			state, err := ref.Execute(s)

			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(harness.State{RD: 0x40000000, CR: 0x50000000, XER: 0xC0000000}))
		})

		It("should rotate right by one for rlwinm. 31,0,31", func() {
			s := setup("rlwinm.", harness.Operands{RA: 0x00000001, SH: 31, MB: 0, ME: 31}, 0)

			state, err := ref.Execute(s)

			Expect(err).NotTo(HaveOccurred())
			Expect(state.RD).To(Equal(uint32(0x80000000)))
			Expect(state.CR).To(Equal(uint32(0x80000000)))
		})

		It("should depend on the carry seed for carry-sensitive members", func() {
			differs := false
			for c := range harness.Sweep(harness.ShapeRRR) {
				clear, err := ref.Execute(setup("adde.", c.Operands, 0))
				Expect(err).NotTo(HaveOccurred())
				set, err := ref.Execute(setup("adde.", c.Operands, 0x20000000))
				Expect(err).NotTo(HaveOccurred())
				if clear != set {
					differs = true
				}
			}
			Expect(differs).To(BeTrue())
		})
	})

	Describe("NewOracle", func() {
		It("should build the reference oracle", func() {
			o, err := harness.NewOracle(harness.OracleReference)
			Expect(err).NotTo(HaveOccurred())
			Expect(o.Name()).To(Equal("reference"))
			Expect(harness.CloseOracle(o)).To(Succeed())
		})

		It("should fall back to the reference model in auto mode", func() {
			o, err := harness.NewOracle(harness.OracleAuto)
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(harness.CloseOracle, o)

			auto, ok := o.(*harness.Auto)
			Expect(ok).To(BeTrue())
			Expect(auto.For(mustMember("addo.")).Name()).To(Equal("reference"))
		})

		It("should fail in host mode without a PowerPC host", func() {
			o, err := harness.NewOracle(harness.OracleHost)
			if err == nil {
				Expect(harness.CloseOracle(o)).To(Succeed())
				Skip("running on a PowerPC host")
			}
			Expect(errors.Is(err, native.ErrHostUnavailable)).To(BeTrue())
		})

		It("should reject unknown modes", func() {
			_, err := harness.NewOracle("simulator")
			Expect(err).To(MatchError(harness.ErrUnknownOracle))
		})
	})
})
