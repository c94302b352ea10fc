package emu_test

import (
	"github.com/sarchlab/ppcverify/emu"
	"github.com/sarchlab/ppcverify/insts"
)

const codeBase = uint32(0x1000)

// stopHandler ends a run at the sentinel word.
var stopHandler = emu.Handler{
	Name: "stop",
	Exec: func(_ *emu.Emulator, _ uint32) emu.StepResult {
		return emu.StepResult{Outcome: emu.OutcomeStopped}
	},
}

func encode(mnemonic string, f insts.Fields) uint32 {
	return insts.MustLookup(mnemonic).Encode(f)
}

// rrr encodes mnemonic with RT=10, RA=11, RB=12.
func rrr(mnemonic string) uint32 {
	return encode(mnemonic, insts.Fields{RT: 10, RA: 11, RB: 12})
}

// logical encodes a logical mnemonic with RS=11, RA=10, RB=12.
func logical(mnemonic string) uint32 {
	return encode(mnemonic, insts.Fields{RT: 11, RA: 10, RB: 12})
}

// runOne executes word followed by the sentinel and returns the result.
func runOne(e *emu.Emulator, word uint32) emu.StepResult {
	e.Inject(codeBase, []uint32{word, insts.SentinelWord})
	return e.Run()
}
