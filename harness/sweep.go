package harness

import "iter"

// Operand grids.
var (
	// coarseValues covers the three high bits: i<<29 for i in 0..7.
	coarseValues = func() []uint32 {
		v := make([]uint32, 8)
		for i := range v {
			v[i] = uint32(i) << 29
		}
		return v
	}()

	// fineValues are the small signed values -2..2.
	fineValues = []uint32{0xFFFFFFFE, 0xFFFFFFFF, 0, 1, 2}

	immediates = []uint16{
		0x0000, 0x2000, 0x4000, 0x6000, 0x8000, 0xa000, 0xc000, 0xe000,
		0xfffe, 0xffff, 0x0001, 0x0002,
	}

	shiftAmounts = []uint8{0, 1, 2, 3, 28, 29, 30, 31}

	rotateFields = []uint8{0, 1, 30, 31}

	compareValues = []uint32{0xFFFFFFFF, 0, 1}

	compareImmediates = []uint16{0x0000, 0x4000, 0x8000, 0xc000}

	// crSeeds are the initial condition register values for CR logical
	// operations, which always read bits 1 and 2 and write bit 0.
	crSeeds = []uint32{
		0xdeadbeef, 0x01200000, 0x02100000, 0x1c200000,
		0x81200000, 0x41200000, 0x21200000, 0x11200000,
		0x81200000, 0x42200000, 0x24200000, 0x18200000,
		0x83200000, 0x45200000, 0x27200000, 0x19200000,
		0x1c200000, 0x81c00000, 0x41c00000, 0x21c00000,
		0x11c00000, 0x81c00000, 0x42c00000, 0x24c00000,
		0x18c00000, 0x83c00000, 0x45c00000, 0x27c00000,
		0x19c00000,
	}
)

// Case is one generated point of a sweep.
type Case struct {
	Operands Operands

	// CR overrides the seed condition register when HasCR is set.
	CR    uint32
	HasCR bool
}

// Sweep returns the cases for a shape, in a fixed order.
func Sweep(shape Shape) iter.Seq[Case] {
	switch shape {
	case ShapeRRR:
		return sweepRRR
	case ShapeRR:
		return sweepRR
	case ShapeRRI, ShapeRRK:
		return sweepImmediate
	case ShapeRRS:
		return sweepShift
	case ShapeRRIII:
		return sweepRotateImmediate
	case ShapeRRRII:
		return sweepRotateRegister
	case ShapeCRR:
		return sweepCompare
	case ShapeCRI, ShapeCRK:
		return sweepCompareImmediate
	case ShapeCCC:
		return sweepCRLogical
	default:
		return func(func(Case) bool) {}
	}
}

// SweepLen returns the number of cases Sweep(shape) yields.
func SweepLen(shape Shape) int {
	n := 0
	for range Sweep(shape) {
		n++
	}
	return n
}

func sweepRRR(yield func(Case) bool) {
	for _, grid := range [][]uint32{coarseValues, fineValues} {
		for _, ra := range grid {
			for _, rb := range grid {
				if !yield(Case{Operands: Operands{RA: ra, RB: rb}}) {
					return
				}
			}
		}
	}
}

func sweepRR(yield func(Case) bool) {
	for _, grid := range [][]uint32{coarseValues, fineValues} {
		for _, ra := range grid {
			if !yield(Case{Operands: Operands{RA: ra}}) {
				return
			}
		}
	}
}

func sweepImmediate(yield func(Case) bool) {
	for _, ra := range coarseValues {
		for _, imm := range immediates {
			if !yield(Case{Operands: Operands{RA: ra, Imm: imm}}) {
				return
			}
		}
	}
}

func sweepShift(yield func(Case) bool) {
	for _, ra := range coarseValues {
		for _, sh := range shiftAmounts {
			if !yield(Case{Operands: Operands{RA: ra, SH: sh}}) {
				return
			}
		}
	}
}

func sweepRotateImmediate(yield func(Case) bool) {
	for _, ra := range coarseValues {
		for _, sh := range rotateFields {
			for _, mb := range rotateFields {
				for _, me := range rotateFields {
					op := Operands{RA: ra, SH: sh, MB: mb, ME: me}
					if !yield(Case{Operands: op}) {
						return
					}
				}
			}
		}
	}
}

func sweepRotateRegister(yield func(Case) bool) {
	for _, ra := range coarseValues {
		for rb := uint32(0); rb < 32; rb++ {
			for _, mb := range rotateFields {
				for _, me := range rotateFields {
					op := Operands{RA: ra, RB: rb, MB: mb, ME: me}
					if !yield(Case{Operands: op}) {
						return
					}
				}
			}
		}
	}
}

func sweepCompare(yield func(Case) bool) {
	for _, ra := range compareValues {
		for _, rb := range compareValues {
			for crf := uint8(0); crf < 8; crf++ {
				if !yield(Case{Operands: Operands{RA: ra, RB: rb, CRF: crf}}) {
					return
				}
			}
		}
	}
}

func sweepCompareImmediate(yield func(Case) bool) {
	for _, ra := range compareValues {
		for crf := uint8(0); crf < 8; crf++ {
			for _, imm := range compareImmediates {
				if !yield(Case{Operands: Operands{RA: ra, CRF: crf, Imm: imm}}) {
					return
				}
			}
		}
	}
}

func sweepCRLogical(yield func(Case) bool) {
	for _, cr := range crSeeds {
		op := Operands{CrbD: 0, CrbA: 1, CrbB: 2}
		if !yield(Case{Operands: op, CR: cr, HasCR: true}) {
			return
		}
	}
}
