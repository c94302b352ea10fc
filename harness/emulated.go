package harness

import (
	"errors"
	"fmt"

	"github.com/sarchlab/ppcverify/emu"
)

// ErrStopAddress is reported when the emulator stops anywhere other than
// on the sentinel right after the test instruction.
var ErrStopAddress = errors.New("emulator did not stop on the sentinel")

// runEmulated executes s on the target.
func runEmulated(t Target, s Setup) (State, emu.StepResult, error) {
	t.SetCR(s.CR)
	t.SetXER(s.XER)
	t.SetGPR(RegRD, s.RD)
	t.SetGPR(RegRA, s.Operands.RA)
	t.SetGPR(RegRB, s.Operands.RB)

	t.Inject(CodeBase, Encoded(s.Word).Words())
	start := t.PC()

	result := t.Run()

	state := State{RD: t.GPR(RegRD), CR: t.CR(), XER: t.XER()}

	if result.Outcome != emu.OutcomeStopped {
		err := result.Err
		if err == nil {
			err = fmt.Errorf("run ended with outcome %s", result.Outcome)
		}
		return state, result, err
	}

	if pc := t.PC(); pc != start+4 {
		return state, result, fmt.Errorf("stopped at 0x%08X, want 0x%08X: %w",
			pc, start+4, ErrStopAddress)
	}

	return state, result, nil
}
