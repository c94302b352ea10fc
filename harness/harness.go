// Package harness compares the emulator against an oracle, one instruction
// at a time.
//
// For every member of the instruction catalog the harness sweeps a grid of
// operand values, executes each resulting word once on the oracle and once
// on the emulator, and compares the destination register, CR and XER.
// Mismatches are counted and reported; the sweep always runs to the end.
package harness

import (
	"github.com/sarchlab/ppcverify/emu"
	"github.com/sarchlab/ppcverify/insts"
)

// Registers every test instruction uses.
const (
	RegRD uint8 = 10
	RegRA uint8 = 11
	RegRB uint8 = 12
)

// CodeBase is where test instructions are injected into the target.
const CodeBase uint32 = 0x00010000

// Target is the emulator under test.
type Target interface {
	SetGPR(reg uint8, value uint32)
	GPR(reg uint8) uint32
	SetCR(value uint32)
	CR() uint32
	SetXER(value uint32)
	XER() uint32

	// Inject writes words at addr, invalidates any cached copy of them and
	// points the program counter at the first one.
	Inject(addr uint32, words []uint32)
	PC() uint32

	// Run executes until a handler stops execution or a fault occurs.
	Run() emu.StepResult

	RegisterHandler(primary uint8, h emu.Handler) error
}

// State is the architected result of executing one instruction.
type State struct {
	RD  uint32
	CR  uint32
	XER uint32
}

// Operands are the swept inputs of one test case. Which fields are
// meaningful depends on the member's shape.
type Operands struct {
	RA uint32
	RB uint32

	Imm uint16
	SH  uint8
	MB  uint8
	ME  uint8

	// CRF is the destination field of compares.
	CRF uint8

	// Condition register bit indices of CR logical operations.
	CrbD uint8
	CrbA uint8
	CrbB uint8
}

// Setup is everything an execution path needs to run one case.
type Setup struct {
	Member   *Member
	Word     uint32
	Operands Operands

	// Initial register values.
	RD  uint32
	CR  uint32
	XER uint32
}

// TestCase is one executed comparison.
type TestCase struct {
	Setup

	Oracle   string
	Native   State
	Emulated State

	// Outcome is how the emulator's run ended.
	Outcome emu.Outcome
	// Err describes an emulated fault or a wrong stop address.
	Err error
}

// Passed reports whether both paths agree and the emulator stopped
// cleanly.
func (tc *TestCase) Passed() bool {
	if tc.Err != nil || tc.Outcome != emu.OutcomeStopped {
		return false
	}
	return tc.Native == tc.Emulated
}

// EncodedInstruction is the code injected for one case: the instruction
// followed by the sentinel that returns control to the harness.
type EncodedInstruction struct {
	Word     uint32
	Sentinel uint32
}

// Words returns the words to inject.
func (e EncodedInstruction) Words() []uint32 {
	return []uint32{e.Word, e.Sentinel}
}

// Encoded pairs word with the sentinel.
func Encoded(word uint32) EncodedInstruction {
	return EncodedInstruction{Word: word, Sentinel: insts.SentinelWord}
}
