package harness

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ppcverify/insts"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Flags renders CR field crf and the XER overflow and carry bits as
// "LT,GT,EQ,SO,OV,CA", with "__" for each clear bit.
func Flags(cr, xer uint32, crf uint8) string {
	field := insts.CRField(cr, crf)
	mark := func(set bool, name string) string {
		if set {
			return name
		}
		return "__"
	}
	return strings.Join([]string{
		mark(field&0x8 != 0, "LT"),
		mark(field&0x4 != 0, "GT"),
		mark(field&0x2 != 0, "EQ"),
		mark(field&0x1 != 0, "SO"),
		mark(xer&insts.XEROV != 0, "OV"),
		mark(xer&insts.XERCA != 0, "CA"),
	}, ",")
}

// FormatInputs renders the swept operands of a case.
func FormatInputs(shape Shape, op Operands) string {
	switch shape {
	case ShapeRRR:
		return fmt.Sprintf("%08x, %08x", op.RA, op.RB)
	case ShapeRR:
		return fmt.Sprintf("%08x", op.RA)
	case ShapeRRI, ShapeRRK:
		return fmt.Sprintf("%08x, %04x", op.RA, op.Imm)
	case ShapeRRS:
		return fmt.Sprintf("%08x, %04x", op.RA, op.SH)
	case ShapeRRIII:
		return fmt.Sprintf("%08x, %02d, %02d, %02d", op.RA, op.SH, op.MB, op.ME)
	case ShapeRRRII:
		return fmt.Sprintf("%08x, %02d, %02d, %02d", op.RA, op.RB, op.MB, op.ME)
	case ShapeCRR:
		return fmt.Sprintf("%d, %08x, %08x", op.CRF, op.RA, op.RB)
	case ShapeCRI, ShapeCRK:
		return fmt.Sprintf("%d, %08x, %04x", op.CRF, op.RA, op.Imm)
	case ShapeCCC:
		return fmt.Sprintf("%02d, %02d", op.CrbA, op.CrbB)
	default:
		return ""
	}
}

// FormatResult renders one path's result line for a case.
func FormatResult(tc *TestCase, s State) string {
	shape := tc.Member.Shape
	op := tc.Operands

	if shape == ShapeCCC {
		return fmt.Sprintf(" %s, %08x: [%s], [%s] => [%s]",
			FormatInputs(shape, op), tc.CR,
			Flags(s.CR, s.XER, op.CrbA/4),
			Flags(s.CR, s.XER, op.CrbB/4),
			Flags(s.CR, s.XER, op.CrbD/4))
	}

	var crf uint8
	if shape == ShapeCRR || shape == ShapeCRI || shape == ShapeCRK {
		crf = op.CRF
	}

	return fmt.Sprintf(" %s => %08x [%s]", FormatInputs(shape, op), s.RD, Flags(s.CR, s.XER, crf))
}

// report writes the verdict and both result lines for tc.
func (c *Context) report(tc *TestCase) {
	verdict := "PASS"
	if !tc.Passed() {
		verdict = "FAIL"
	}

	fmt.Fprintf(c.out, "%s: %s [%08x]\n", verdict, tc.Member.Mnemonic(), tc.Word)
	fmt.Fprintln(c.out, FormatResult(tc, tc.Native))
	fmt.Fprintln(c.out, FormatResult(tc, tc.Emulated))

	if verdict == "FAIL" {
		fields := logrus.Fields{
			"mnemonic": tc.Member.Mnemonic(),
			"word":     fmt.Sprintf("%08x", tc.Word),
			"oracle":   tc.Oracle,
		}
		if tc.Err != nil {
			c.log.WithFields(fields).WithError(tc.Err).Warn("emulated run failed")
		}
		c.log.WithFields(fields).Debugf("state mismatch (-%s +emulated):\n%s",
			tc.Oracle, cmp.Diff(tc.Native, tc.Emulated))
	}

	if c.verbose {
		fmt.Fprint(c.out, dumper.Sdump(tc))
	}
}
