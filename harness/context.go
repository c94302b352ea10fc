package harness

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ppcverify/emu"
	"github.com/sarchlab/ppcverify/insts"
)

// SentinelHandler stops the emulator when it reaches the word that follows
// every test instruction. It leaves the PC on the sentinel.
var SentinelHandler = emu.Handler{
	Name: "return",
	Exec: func(*emu.Emulator, uint32) emu.StepResult {
		return emu.StepResult{Outcome: emu.OutcomeStopped}
	},
}

// Context carries the state of a test run: the target and oracle, output
// settings, and the test and error counters.
type Context struct {
	target Target
	oracle Oracle

	out     io.Writer
	log     logrus.FieldLogger
	verbose bool
	markers bool

	families map[string]bool // nil enables every family

	seedRD  uint32
	seedCR  uint32
	seedXER uint32

	tests   int
	errors  int
	skipped int

	sentinelInstalled bool
	running           atomic.Bool
}

// Option configures a Context.
type Option func(*Context)

// WithWriter sets where reports and the summary are written.
func WithWriter(w io.Writer) Option {
	return func(c *Context) {
		c.out = w
	}
}

// WithLogger sets the logger for run events and diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Context) {
		c.log = log
	}
}

// WithVerbose reports passing cases too and dumps every case.
func WithVerbose(verbose bool) Option {
	return func(c *Context) {
		c.verbose = verbose
	}
}

// WithMarkers prefixes the summary with a pass/fail marker.
func WithMarkers(markers bool) Option {
	return func(c *Context) {
		c.markers = markers
	}
}

// WithFamilies restricts the run to the named families. An empty list
// enables all of them.
func WithFamilies(names ...string) Option {
	return func(c *Context) {
		if len(names) == 0 {
			c.families = nil
			return
		}
		c.families = make(map[string]bool, len(names))
		for _, n := range names {
			c.families[n] = true
		}
	}
}

// WithSeeds sets the initial destination register, CR and XER of every
// case. XER[CA] is overridden per pass.
func WithSeeds(rd, cr, xer uint32) Option {
	return func(c *Context) {
		c.seedRD, c.seedCR, c.seedXER = rd, cr, xer
	}
}

// NewContext creates a Context comparing target against oracle.
func NewContext(target Target, oracle Oracle, opts ...Option) *Context {
	c := &Context{
		target: target,
		oracle: oracle,
		out:    os.Stdout,
		log:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// InstallSentinel registers SentinelHandler for the sentinel's primary
// opcode. It talks to the target only once per Context.
func (c *Context) InstallSentinel() error {
	if c.sentinelInstalled {
		return nil
	}

	if err := c.target.RegisterHandler(insts.SentinelPrimary, SentinelHandler); err != nil {
		return fmt.Errorf("install sentinel: %w", err)
	}

	c.sentinelInstalled = true
	return nil
}

// Tests returns the number of cases executed by the current or last run.
func (c *Context) Tests() int { return c.tests }

// Errors returns the number of failed cases.
func (c *Context) Errors() int { return c.errors }

// Summary returns the run summary line.
func (c *Context) Summary() string {
	return fmt.Sprintf("%d errors out of %d tests", c.errors, c.tests)
}

func (c *Context) enabled(family string) bool {
	return c.families == nil || c.families[family]
}
