// Package emu provides functional 32-bit PowerPC emulation.
package emu

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ppcverify/icache"
	"github.com/sarchlab/ppcverify/insts"
)

// Outcome tags the result of a step.
type Outcome uint8

// Step outcomes.
const (
	// OutcomeContinue means the instruction completed and execution may
	// proceed.
	OutcomeContinue Outcome = iota
	// OutcomeStopped means a registered stop handler ended execution.
	OutcomeStopped
	// OutcomeFaulted means execution could not proceed (illegal
	// instruction, step limit).
	OutcomeFaulted
)

// String returns the outcome's name.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeStopped:
		return "stopped"
	case OutcomeFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Outcome says whether execution continues, stopped, or faulted.
	Outcome Outcome

	// Err is set when Outcome is OutcomeFaulted.
	Err error
}

// Errors reported by the emulator.
var (
	ErrIllegalInstruction = errors.New("illegal instruction")
	ErrStepLimit          = errors.New("max instructions reached")
	ErrHandlerConflict    = errors.New("primary opcode already has a handler")
	ErrPrimaryReserved    = errors.New("primary opcode is decoded natively")
)

// Handler executes every word whose primary opcode it is registered for,
// ahead of the built-in decoder.
type Handler struct {
	// Name identifies the handler. Registering the same name twice for a
	// primary opcode is a no-op.
	Name string

	// Exec runs the instruction. It is responsible for advancing PC when
	// returning OutcomeContinue.
	Exec func(e *Emulator, word uint32) StepResult
}

// Primary opcodes the decoder implements.
var nativePrimaries = map[uint8]bool{
	7: true, 8: true, 10: true, 11: true, 12: true, 13: true, 14: true, 15: true,
	19: true, 20: true, 21: true, 23: true,
	24: true, 25: true, 26: true, 27: true, 28: true, 29: true, 31: true,
}

// Emulator executes PowerPC instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	icache  *icache.Cache
	decoder *insts.Decoder
	alu     *ALU

	handlers [64]*Handler

	icacheConfig icache.Config
	log          logrus.FieldLogger

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // per Run; 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMaxInstructions sets the maximum number of instructions a single Run
// may execute. A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithICacheConfig sets the instruction cache geometry.
func WithICacheConfig(config icache.Config) EmulatorOption {
	return func(e *Emulator) {
		e.icacheConfig = config
	}
}

// WithLogger sets the logger used to report faults.
func WithLogger(log logrus.FieldLogger) EmulatorOption {
	return func(e *Emulator) {
		e.log = log
	}
}

// NewEmulator creates a new PowerPC emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Emulator{
		decoder:      insts.NewDecoder(),
		icacheConfig: icache.DefaultConfig(),
		log:          discard,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.Reset()
	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// ICache returns the emulator's instruction cache.
func (e *Emulator) ICache() *icache.Cache {
	return e.icache
}

// InstructionCount returns the number of instructions executed since the
// last Reset.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Reset clears registers, memory and the instruction cache. Registered
// handlers are kept.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = NewMemory()
	e.icache = icache.New(e.icacheConfig, e.memory)
	e.alu = NewALU(e.regFile)
	e.instructionCount = 0
}

// SetGPR writes general-purpose register reg.
func (e *Emulator) SetGPR(reg uint8, value uint32) { e.regFile.WriteReg(reg, value) }

// GPR reads general-purpose register reg.
func (e *Emulator) GPR(reg uint8) uint32 { return e.regFile.ReadReg(reg) }

// SetCR writes the condition register.
func (e *Emulator) SetCR(value uint32) { e.regFile.CR = value }

// CR reads the condition register.
func (e *Emulator) CR() uint32 { return e.regFile.CR }

// SetXER writes the integer exception register.
func (e *Emulator) SetXER(value uint32) { e.regFile.XER = value }

// XER reads the integer exception register.
func (e *Emulator) XER() uint32 { return e.regFile.XER }

// PC returns the program counter.
func (e *Emulator) PC() uint32 { return e.regFile.PC }

// Inject writes words at addr, invalidates the instruction cache over them
// and points PC at the first one.
func (e *Emulator) Inject(addr uint32, words []uint32) {
	for i, w := range words {
		e.memory.Write32(addr+uint32(4*i), w)
	}
	e.icache.InvalidateRange(uint64(addr), 4*len(words))
	e.regFile.PC = addr
}

// RegisterHandler binds h to a primary opcode the decoder does not
// implement. Registration is idempotent for the same handler name.
func (e *Emulator) RegisterHandler(primary uint8, h Handler) error {
	primary &= 0x3F
	if nativePrimaries[primary] {
		return fmt.Errorf("register %q for opcode %d: %w", h.Name, primary, ErrPrimaryReserved)
	}

	if cur := e.handlers[primary]; cur != nil {
		if cur.Name == h.Name {
			return nil
		}
		return fmt.Errorf("register %q for opcode %d (held by %q): %w",
			h.Name, primary, cur.Name, ErrHandlerConflict)
	}

	e.handlers[primary] = &h
	return nil
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	pc := e.regFile.PC

	// 1. Fetch through the instruction cache
	word, _ := e.icache.Fetch(pc)
	e.instructionCount++

	// 2. Registered handlers take precedence over the decoder
	if h := e.handlers[word>>26]; h != nil {
		return h.Exec(e, word)
	}

	// 3. Decode
	var inst insts.Instruction
	e.decoder.DecodeInto(word, &inst)
	if inst.Op == insts.OpUnknown {
		e.log.WithFields(logrus.Fields{
			"pc":   fmt.Sprintf("0x%08X", pc),
			"word": fmt.Sprintf("0x%08X", word),
		}).Debug("illegal instruction")
		return StepResult{
			Outcome: OutcomeFaulted,
			Err:     fmt.Errorf("0x%08X at PC=0x%08X: %w", word, pc, ErrIllegalInstruction),
		}
	}

	// 4. Execute
	e.execute(&inst)
	e.regFile.PC = pc + 4

	return StepResult{Outcome: OutcomeContinue}
}

// Run executes instructions until a handler stops execution or a fault
// occurs.
func (e *Emulator) Run() StepResult {
	for steps := uint64(0); ; steps++ {
		if e.maxInstructions > 0 && steps >= e.maxInstructions {
			return StepResult{
				Outcome: OutcomeFaulted,
				Err:     fmt.Errorf("PC=0x%08X after %d steps: %w", e.regFile.PC, steps, ErrStepLimit),
			}
		}

		result := e.Step()
		if result.Outcome != OutcomeContinue {
			return result
		}
	}
}

// execute dispatches a decoded instruction to its execution unit.
func (e *Emulator) execute(inst *insts.Instruction) {
	switch inst.Op {
	case insts.OpADD, insts.OpADDC, insts.OpADDE, insts.OpADDME, insts.OpADDZE,
		insts.OpSUBF, insts.OpSUBFC, insts.OpSUBFE, insts.OpSUBFME, insts.OpSUBFZE,
		insts.OpNEG:
		e.alu.Add(inst)
	case insts.OpADDI, insts.OpADDIS, insts.OpADDIC, insts.OpADDICRc, insts.OpSUBFIC:
		e.alu.AddImm(inst)
	case insts.OpMULHW, insts.OpMULHWU, insts.OpMULLI, insts.OpMULLW:
		e.alu.Multiply(inst)
	case insts.OpSLW, insts.OpSRW, insts.OpSRAW, insts.OpSRAWI:
		e.alu.Shift(inst)
	case insts.OpRLWIMI, insts.OpRLWINM, insts.OpRLWNM:
		e.alu.Rotate(inst)
	case insts.OpCMP, insts.OpCMPI, insts.OpCMPL, insts.OpCMPLI:
		e.alu.Compare(inst)
	case insts.OpCRAND, insts.OpCRANDC, insts.OpCREQV, insts.OpCRNAND,
		insts.OpCRNOR, insts.OpCROR, insts.OpCRORC, insts.OpCRXOR:
		e.alu.CRLogical(inst)
	default:
		e.alu.Logical(inst)
	}
}
