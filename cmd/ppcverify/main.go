// Package main provides the ppcverify command, which checks the emulator's
// fixed-point instructions against a native or reference oracle.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/pborman/getopt/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/sarchlab/ppcverify/emu"
	"github.com/sarchlab/ppcverify/harness"
)

// Exit codes.
const (
	exitPass    = 0
	exitFailed  = 1 // at least one case failed
	exitProblem = 2 // bad arguments or the run could not complete
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

type options struct {
	config      *string
	writeConfig *string
	oracle      *string
	families    *string
	logLevel    *string
	cpuProfile  *string
	memProfile  *string
	verbose     *bool
	help        *bool
}

func newOptions(set *getopt.Set) options {
	return options{
		config:      set.StringLong("config", 'c', "", "JSON run configuration"),
		writeConfig: set.StringLong("write-config", 'w', "", "write the effective configuration to a file and exit"),
		oracle:      set.StringLong("oracle", 'o', "", "oracle: auto, host or reference"),
		families:    set.StringLong("families", 'f', "", "comma-separated families to run"),
		logLevel:    set.StringLong("log-level", 'l', "", "log level"),
		cpuProfile:  set.StringLong("cpuprofile", 0, "", "write cpu profile to file"),
		memProfile:  set.StringLong("memprofile", 0, "", "write memory profile to file"),
		verbose:     set.BoolLong("verbose", 'v', "report passing cases too"),
		help:        set.BoolLong("help", 'h', "Help"),
	}
}

// run is main without the process exit, so it can be tested.
func run(args []string, stdout, stderr io.Writer) int {
	set := getopt.New()
	set.SetProgram("ppcverify")
	opts := newOptions(set)

	if err := set.Getopt(args, nil); err != nil {
		fmt.Fprintln(stderr, err)
		set.PrintUsage(stderr)
		return exitProblem
	}
	if *opts.help {
		set.PrintUsage(stdout)
		fmt.Fprintf(stdout, "\nFamilies: %s\n", strings.Join(harness.FamilyNames(), ", "))
		return exitPass
	}

	config, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitProblem
	}

	if *opts.writeConfig != "" {
		if err := config.SaveConfig(*opts.writeConfig); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitProblem
		}
		return exitPass
	}

	log := newLogger(stderr, config.LogLevel)

	if *opts.cpuProfile != "" {
		f, err := os.Create(*opts.cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating CPU profile: %v\n", err)
			return exitProblem
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Error starting CPU profile: %v\n", err)
			return exitProblem
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()
	result, err := verify(config, log, stdout)
	log.WithFields(logrus.Fields{
		"tests":   result.Tests,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("run finished")

	if *opts.memProfile != "" {
		writeHeapProfile(*opts.memProfile, log)
	}

	if err != nil {
		log.WithError(err).Error("run aborted")
		return exitProblem
	}

	if result.Skipped > 0 {
		log.WithField("members", result.Skipped).Warn("members skipped by the oracle")
	}
	if result.Failed() {
		return exitFailed
	}
	return exitPass
}

// loadConfig builds the effective configuration: defaults, then the
// config file, then command line overrides.
func loadConfig(opts options) (*harness.Config, error) {
	config := harness.DefaultConfig()
	if *opts.config != "" {
		var err error
		config, err = harness.LoadConfig(*opts.config)
		if err != nil {
			return nil, err
		}
	}

	if *opts.oracle != "" {
		config.Oracle = *opts.oracle
	}
	if *opts.families != "" {
		config.Families = splitList(*opts.families)
	}
	if *opts.logLevel != "" {
		config.LogLevel = *opts.logLevel
	}
	if *opts.verbose {
		config.Verbose = true
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func writeHeapProfile(path string, log logrus.FieldLogger) {
	f, err := os.Create(path)
	if err != nil {
		log.WithError(err).Error("creating memory profile")
		return
	}
	defer func() { _ = f.Close() }()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.WithError(err).Error("writing memory profile")
	}
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func newLogger(w io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

// newTarget builds the emulator under test.
var newTarget = func(config *harness.Config, log logrus.FieldLogger) harness.Target {
	return emu.NewEmulator(append(config.EmulatorOptions(), emu.WithLogger(log))...)
}

// verify runs the configured families against the configured oracle.
func verify(config *harness.Config, log *logrus.Logger, stdout io.Writer) (harness.Result, error) {
	oracle, err := harness.NewOracle(config.Oracle)
	if err != nil {
		return harness.Result{}, err
	}
	defer func() {
		if cerr := harness.CloseOracle(oracle); cerr != nil {
			log.WithError(cerr).Warn("closing oracle")
		}
	}()

	log.WithFields(logrus.Fields{
		"oracle":   oracle.Name(),
		"families": familiesField(config.Families),
	}).Info("starting")

	ctx := harness.NewContext(newTarget(config, log), oracle, append(config.ContextOptions(),
		harness.WithWriter(stdout),
		harness.WithLogger(log),
		harness.WithMarkers(isTerminal(stdout)),
	)...)

	return ctx.Run()
}

func familiesField(families []string) string {
	if len(families) == 0 {
		return "all"
	}
	return strings.Join(families, ",")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
