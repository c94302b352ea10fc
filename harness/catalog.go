package harness

import (
	"fmt"

	"github.com/sarchlab/ppcverify/insts"
)

// Shape is the operand pattern of a member. It selects the sweep generator
// and how operands are rendered in reports.
type Shape uint8

// Operand shapes.
const (
	ShapeRRR   Shape = iota // rD, rA, rB
	ShapeRR                 // rD, rA
	ShapeRRI                // rD, rA, signed immediate
	ShapeRRK                // rD, rA, unsigned immediate
	ShapeRRS                // rD, rA, shift amount
	ShapeRRIII              // rD, rA, SH, MB, ME
	ShapeRRRII              // rD, rA, rB, MB, ME
	ShapeCRR                // crfD, rA, rB
	ShapeCRI                // crfD, rA, signed immediate
	ShapeCRK                // crfD, rA, unsigned immediate
	ShapeCCC                // crbD, crbA, crbB
)

var shapeNames = [...]string{
	ShapeRRR:   "RRR",
	ShapeRR:    "RR",
	ShapeRRI:   "RRI",
	ShapeRRK:   "RRK",
	ShapeRRS:   "RRS",
	ShapeRRIII: "RRIII",
	ShapeRRRII: "RRRII",
	ShapeCRR:   "CRR",
	ShapeCRI:   "CRI",
	ShapeCRK:   "CRK",
	ShapeCCC:   "CCC",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// Member is one instruction under test.
type Member struct {
	Template insts.Template
	Shape    Shape

	// SourceInRS is set for operations that read rS and write rA (logical,
	// shift and rotate). The test register roles are then swapped in the
	// encoding so that the result still lands in r10 and the source is r11.
	SourceInRS bool

	// CarrySensitive members are swept a second time with XER[CA] set.
	CarrySensitive bool
}

// Mnemonic returns the member's assembler mnemonic.
func (m *Member) Mnemonic() string {
	return m.Template.Mnemonic
}

// Encode builds the instruction word for one set of operands.
func (m *Member) Encode(op Operands) uint32 {
	f := insts.Fields{RT: RegRD, RA: RegRA, RB: RegRB}
	if m.SourceInRS {
		f.RT, f.RA = RegRA, RegRD
	}

	switch m.Shape {
	case ShapeRR:
		f.RB = 0
	case ShapeRRI, ShapeRRK:
		f.Imm = op.Imm
	case ShapeRRS:
		f.RB = op.SH
	case ShapeRRIII:
		f.SH, f.MB, f.ME = op.SH, op.MB, op.ME
	case ShapeRRRII:
		f.MB, f.ME = op.MB, op.ME
	case ShapeCRR:
		f = insts.Fields{BF: op.CRF, RA: RegRA, RB: RegRB}
	case ShapeCRI, ShapeCRK:
		f = insts.Fields{BF: op.CRF, RA: RegRA, Imm: op.Imm}
	case ShapeCCC:
		f = insts.Fields{RT: op.CrbD, RA: op.CrbA, RB: op.CrbB}
	}

	return m.Template.Encode(f)
}

// Family is a group of related members that is enabled as a unit.
type Family struct {
	Name    string
	Members []*Member
}

// Family names.
const (
	FamilyAdd       = "add"
	FamilySub       = "sub"
	FamilyMul       = "mul"
	FamilyShift     = "shift"
	FamilyRotate    = "rotate"
	FamilyLogical   = "logical"
	FamilyCompare   = "compare"
	FamilyCRLogical = "crlogical"
)

type memberOpt func(*Member)

func rs(m *Member)    { m.SourceInRS = true }
func carry(m *Member) { m.CarrySensitive = true }

func member(mnemonic string, shape Shape, opts ...memberOpt) *Member {
	m := &Member{Template: insts.MustLookup(mnemonic), Shape: shape}
	for _, o := range opts {
		o(m)
	}
	return m
}

var catalog = []Family{
	{FamilyAdd, []*Member{
		member("add", ShapeRRR),
		member("add.", ShapeRRR),
		member("addo", ShapeRRR),
		member("addo.", ShapeRRR),
		member("addc.", ShapeRRR),
		member("addco.", ShapeRRR),
		member("adde.", ShapeRRR, carry),
		member("addeo.", ShapeRRR, carry),
		member("addi", ShapeRRI),
		member("addic", ShapeRRI),
		member("addic.", ShapeRRI),
		member("addis", ShapeRRI),
		member("addme.", ShapeRR, carry),
		member("addmeo.", ShapeRR, carry),
		member("addze.", ShapeRR, carry),
		member("addzeo.", ShapeRR, carry),
	}},
	{FamilySub, []*Member{
		member("subf.", ShapeRRR),
		member("subfo.", ShapeRRR),
		member("subfc.", ShapeRRR),
		member("subfco.", ShapeRRR),
		member("subfe.", ShapeRRR, carry),
		member("subfeo.", ShapeRRR, carry),
		member("subfic", ShapeRRI),
		member("subfme.", ShapeRR, carry),
		member("subfmeo.", ShapeRR, carry),
		member("subfze.", ShapeRR, carry),
		member("subfzeo.", ShapeRR, carry),
	}},
	{FamilyMul, []*Member{
		member("mulhw", ShapeRRR),
		member("mulhw.", ShapeRRR),
		member("mulhwu", ShapeRRR),
		member("mulhwu.", ShapeRRR),
		member("mulli", ShapeRRI),
		member("mullw", ShapeRRR),
		member("mullw.", ShapeRRR),
		member("mullwo", ShapeRRR),
		member("mullwo.", ShapeRRR),
	}},
	{FamilyShift, []*Member{
		member("slw", ShapeRRR, rs),
		member("slw.", ShapeRRR, rs),
		member("sraw", ShapeRRR, rs),
		member("sraw.", ShapeRRR, rs),
		member("srawi", ShapeRRS, rs),
		member("srawi.", ShapeRRS, rs),
		member("srw", ShapeRRR, rs),
		member("srw.", ShapeRRR, rs),
	}},
	{FamilyRotate, []*Member{
		member("rlwimi.", ShapeRRIII, rs),
		member("rlwinm.", ShapeRRIII, rs),
		member("rlwnm.", ShapeRRRII, rs),
	}},
	{FamilyLogical, []*Member{
		member("and.", ShapeRRR, rs),
		member("andc.", ShapeRRR, rs),
		member("andi.", ShapeRRK, rs),
		member("andis.", ShapeRRK, rs),
		member("cntlzw.", ShapeRR, rs),
		member("eqv.", ShapeRRR, rs),
		member("extsb.", ShapeRR, rs),
		member("extsh.", ShapeRR, rs),
		member("nand.", ShapeRRR, rs),
		member("neg.", ShapeRR),
		member("nego.", ShapeRR),
		member("nor.", ShapeRRR, rs),
		member("or.", ShapeRRR, rs),
		member("orc.", ShapeRRR, rs),
		member("ori", ShapeRRK, rs),
		member("oris", ShapeRRK, rs),
		member("xor.", ShapeRRR, rs),
		member("xori", ShapeRRK, rs),
		member("xoris", ShapeRRK, rs),
	}},
	{FamilyCompare, []*Member{
		member("cmp", ShapeCRR),
		member("cmpi", ShapeCRI),
		member("cmpl", ShapeCRR),
		member("cmpli", ShapeCRK),
	}},
	{FamilyCRLogical, []*Member{
		member("crand", ShapeCCC),
		member("crandc", ShapeCCC),
		member("creqv", ShapeCCC),
		member("crnand", ShapeCCC),
		member("crnor", ShapeCCC),
		member("cror", ShapeCCC),
		member("crorc", ShapeCCC),
		member("crxor", ShapeCCC),
	}},
}

// Catalog returns the instruction families in test order.
func Catalog() []Family {
	return catalog
}

// FamilyNames returns the names of all families in test order.
func FamilyNames() []string {
	names := make([]string, len(catalog))
	for i, f := range catalog {
		names[i] = f.Name
	}
	return names
}

// LookupFamily finds a family by name.
func LookupFamily(name string) (Family, bool) {
	for _, f := range catalog {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}
