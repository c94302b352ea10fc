package insts

// Template describes the fixed part of an instruction: its mnemonic, format,
// primary and extended opcodes, and the OE and Rc bits implied by the
// mnemonic suffixes ("o" and ".").
type Template struct {
	Mnemonic string
	Format   Format
	Primary  uint8
	Extended uint16
	OE       bool
	Rc       bool
}

// Encode merges the operand fields with the template's fixed fields and
// encodes the result. Opcode, OE and Rc in f are overridden.
func (t Template) Encode(f Fields) uint32 {
	f.Primary = t.Primary
	f.Extended = t.Extended
	f.OE = t.OE
	f.Rc = t.Rc
	return Encode(t.Format, f)
}

func xo(mnemonic string, ext uint16, oe, rc bool) Template {
	return Template{Mnemonic: mnemonic, Format: FormatXO, Primary: 31, Extended: ext, OE: oe, Rc: rc}
}

func x(mnemonic string, ext uint16, rc bool) Template {
	return Template{Mnemonic: mnemonic, Format: FormatX, Primary: 31, Extended: ext, Rc: rc}
}

func d(mnemonic string, primary uint8) Template {
	return Template{Mnemonic: mnemonic, Format: FormatD, Primary: primary}
}

func dRc(mnemonic string, primary uint8) Template {
	return Template{Mnemonic: mnemonic, Format: FormatD, Primary: primary, Rc: true}
}

func crl(mnemonic string, ext uint16) Template {
	return Template{Mnemonic: mnemonic, Format: FormatXL, Primary: 19, Extended: ext}
}

var templates = []Template{
	xo("add", 266, false, false),
	xo("add.", 266, false, true),
	xo("addo", 266, true, false),
	xo("addo.", 266, true, true),
	xo("addc", 10, false, false),
	xo("addc.", 10, false, true),
	xo("addco.", 10, true, true),
	xo("adde", 138, false, false),
	xo("adde.", 138, false, true),
	xo("addeo.", 138, true, true),
	d("addi", 14),
	d("addic", 12),
	dRc("addic.", 13),
	d("addis", 15),
	xo("addme.", 234, false, true),
	xo("addmeo.", 234, true, true),
	xo("addze.", 202, false, true),
	xo("addzeo.", 202, true, true),

	xo("subf.", 40, false, true),
	xo("subfo.", 40, true, true),
	xo("subfc.", 8, false, true),
	xo("subfco.", 8, true, true),
	xo("subfe.", 136, false, true),
	xo("subfeo.", 136, true, true),
	d("subfic", 8),
	xo("subfme.", 232, false, true),
	xo("subfmeo.", 232, true, true),
	xo("subfze.", 200, false, true),
	xo("subfzeo.", 200, true, true),

	xo("mulhw", 75, false, false),
	xo("mulhw.", 75, false, true),
	xo("mulhwu", 11, false, false),
	xo("mulhwu.", 11, false, true),
	d("mulli", 7),
	xo("mullw", 235, false, false),
	xo("mullw.", 235, false, true),
	xo("mullwo", 235, true, false),
	xo("mullwo.", 235, true, true),

	x("and.", 28, true),
	x("andc.", 60, true),
	dRc("andi.", 28),
	dRc("andis.", 29),
	x("cntlzw.", 26, true),
	x("eqv.", 284, true),
	x("extsb.", 954, true),
	x("extsh.", 922, true),
	x("nand.", 476, true),
	xo("neg.", 104, false, true),
	xo("nego.", 104, true, true),
	x("nor.", 124, true),
	x("or.", 444, true),
	x("orc.", 412, true),
	d("ori", 24),
	d("oris", 25),
	x("xor.", 316, true),
	d("xori", 26),
	d("xoris", 27),

	x("slw", 24, false),
	x("slw.", 24, true),
	x("sraw", 792, false),
	x("sraw.", 792, true),
	x("srawi", 824, false),
	x("srawi.", 824, true),
	x("srw", 536, false),
	x("srw.", 536, true),

	{Mnemonic: "rlwimi.", Format: FormatM, Primary: 20, Rc: true},
	{Mnemonic: "rlwinm.", Format: FormatM, Primary: 21, Rc: true},
	{Mnemonic: "rlwnm.", Format: FormatMReg, Primary: 23, Rc: true},

	{Mnemonic: "cmp", Format: FormatXCmp, Primary: 31, Extended: 0},
	{Mnemonic: "cmpi", Format: FormatDCmp, Primary: 11},
	{Mnemonic: "cmpl", Format: FormatXCmp, Primary: 31, Extended: 32},
	{Mnemonic: "cmpli", Format: FormatDCmp, Primary: 10},

	crl("crand", 257),
	crl("crandc", 129),
	crl("creqv", 289),
	crl("crnand", 225),
	crl("crnor", 33),
	crl("cror", 449),
	crl("crorc", 417),
	crl("crxor", 193),
}

var templateIndex = func() map[string]Template {
	m := make(map[string]Template, len(templates))
	for _, t := range templates {
		m[t.Mnemonic] = t
	}
	return m
}()

// Lookup returns the template for a mnemonic.
func Lookup(mnemonic string) (Template, bool) {
	t, ok := templateIndex[mnemonic]
	return t, ok
}

// MustLookup is like Lookup but panics on an unknown mnemonic. It is meant
// for package-level tables built from literal mnemonics.
func MustLookup(mnemonic string) Template {
	t, ok := Lookup(mnemonic)
	if !ok {
		panic("insts: unknown mnemonic " + mnemonic)
	}
	return t
}

// Templates returns all known templates in catalog order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}
