package harness_test

import (
	"bytes"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ppcverify/emu"
	"github.com/sarchlab/ppcverify/harness"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newEmulator() *emu.Emulator {
	return emu.NewEmulator(harness.DefaultConfig().EmulatorOptions()...)
}

func newContext(target harness.Target, out *bytes.Buffer, opts ...harness.Option) *harness.Context {
	all := append([]harness.Option{
		harness.WithWriter(out),
		harness.WithLogger(quietLogger()),
	}, opts...)
	return harness.NewContext(target, harness.Reference{}, all...)
}

func mustMember(mnemonic string) *harness.Member {
	for _, f := range harness.Catalog() {
		for _, m := range f.Members {
			if m.Mnemonic() == mnemonic {
				return m
			}
		}
	}
	panic("no catalog member " + mnemonic)
}

// xerCorrupting reports XER with CA flipped.
type xerCorrupting struct {
	*emu.Emulator
}

func (t xerCorrupting) XER() uint32 {
	return t.Emulator.XER() ^ 0x20000000
}

// faulting never reaches the sentinel.
type faulting struct {
	*emu.Emulator
}

func (faulting) Run() emu.StepResult {
	return emu.StepResult{Outcome: emu.OutcomeFaulted, Err: emu.ErrIllegalInstruction}
}

// overrunning reports a PC one word past the sentinel.
type overrunning struct {
	*emu.Emulator
	ran bool
}

func (t *overrunning) Run() emu.StepResult {
	t.ran = true
	return t.Emulator.Run()
}

func (t *overrunning) PC() uint32 {
	if t.ran {
		t.ran = false
		return t.Emulator.PC() + 4
	}
	return t.Emulator.PC()
}

// reentrant calls back into the Context from inside a run.
type reentrant struct {
	*emu.Emulator
	ctx *harness.Context
	err error
}

func (t *reentrant) Run() emu.StepResult {
	if t.err == nil {
		_, t.err = t.ctx.Run()
	}
	return t.Emulator.Run()
}

func newEmulatorWith(config *harness.Config) *emu.Emulator {
	return emu.NewEmulator(config.EmulatorOptions()...)
}

// clobbering writes r10 and sets XER[OV] behind every run.
type clobbering struct {
	*emu.Emulator
}

func (t *clobbering) Run() emu.StepResult {
	result := t.Emulator.Run()
	t.SetGPR(harness.RegRD, 0x12345678)
	t.SetXER(t.Emulator.XER() | 0x40000000)
	return result
}
