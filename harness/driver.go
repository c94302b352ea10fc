package harness

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ppcverify/insts"
)

// ErrRunInProgress is returned when Run is called while another Run on the
// same Context has not finished.
var ErrRunInProgress = errors.New("harness: run already in progress")

// Result holds the counters of a finished run.
type Result struct {
	Tests   int
	Errors  int
	Skipped int // members the oracle cannot evaluate
}

// Failed reports whether any case failed.
func (r Result) Failed() bool {
	return r.Errors > 0
}

// Run executes every enabled family in catalog order and prints the
// summary. Per-case failures are counted, not returned; the error result
// is reserved for problems that stop the run.
func (c *Context) Run() (Result, error) {
	if !c.running.CompareAndSwap(false, true) {
		return Result{}, ErrRunInProgress
	}
	defer c.running.Store(false)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := c.InstallSentinel(); err != nil {
		return Result{}, err
	}

	c.tests, c.errors, c.skipped = 0, 0, 0

	for _, family := range Catalog() {
		if !c.enabled(family.Name) {
			continue
		}
		if err := c.runFamily(family); err != nil {
			return c.result(), err
		}
	}

	c.printSummary()
	return c.result(), nil
}

func (c *Context) result() Result {
	return Result{Tests: c.tests, Errors: c.errors, Skipped: c.skipped}
}

func (c *Context) printSummary() {
	summary := c.Summary()
	if c.markers {
		marker := "✅"
		if c.errors > 0 {
			marker = "❌"
		}
		summary = marker + " " + summary
	}
	fmt.Fprintln(c.out, summary)
}

// runFamily sweeps every member with XER[CA] clear, then sweeps the
// carry-sensitive members again with XER[CA] set.
func (c *Context) runFamily(f Family) error {
	log := c.log.WithField("family", f.Name)
	log.Debug("starting family")

	for _, m := range f.Members {
		if err := c.runMember(log, m, c.seedXER&^insts.XERCA); err != nil {
			return err
		}
	}

	for _, m := range f.Members {
		if !m.CarrySensitive {
			continue
		}
		if err := c.runMember(log, m, c.seedXER|insts.XERCA); err != nil {
			return err
		}
	}

	return nil
}

func (c *Context) runMember(log logrus.FieldLogger, m *Member, xer uint32) error {
	fmt.Fprintf(c.out, "Testing %s\n", m.Mnemonic())

	log = log.WithFields(logrus.Fields{
		"mnemonic": m.Mnemonic(),
		"shape":    m.Shape.String(),
		"oracle":   oracleName(c.oracle, m),
		"xer":      fmt.Sprintf("%08x", xer),
	})

	if !c.oracle.Supports(m) {
		c.skipped++
		log.Warn("oracle cannot evaluate member, skipped")
		return nil
	}

	before := c.errors
	for tc := range Sweep(m.Shape) {
		if err := c.runCase(m, tc, xer); err != nil {
			return err
		}
	}

	log.WithField("failures", c.errors-before).Debug("member done")
	return nil
}

// runCase executes one case on both paths and records the comparison.
func (c *Context) runCase(m *Member, gen Case, xer uint32) error {
	s := Setup{
		Member:   m,
		Word:     m.Encode(gen.Operands),
		Operands: gen.Operands,
		RD:       c.seedRD,
		CR:       c.seedCR,
		XER:      xer,
	}
	if gen.HasCR {
		s.CR = gen.CR
	}

	expected, err := c.oracle.Execute(s)
	if err != nil {
		return fmt.Errorf("%s oracle on %s [%08x]: %w",
			oracleName(c.oracle, m), m.Mnemonic(), s.Word, err)
	}

	tc := &TestCase{Setup: s, Oracle: oracleName(c.oracle, m), Native: expected}
	emulated, step, runErr := runEmulated(c.target, s)
	tc.Emulated = emulated
	tc.Outcome = step.Outcome
	tc.Err = runErr

	c.tests++
	if !tc.Passed() {
		c.errors++
		c.report(tc)
	} else if c.verbose {
		c.report(tc)
	}

	return nil
}
