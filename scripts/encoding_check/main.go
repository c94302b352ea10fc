// Validate the instruction templates - every template must encode to a word
// the decoder and the reference model recognize, with every field intact.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sarchlab/ppcverify/insts"
	"github.com/sarchlab/ppcverify/ref"
)

// Field values chosen so that no two fields share a value.
var sample = insts.Fields{
	RT:  10,
	RA:  11,
	RB:  12,
	SH:  5,
	MB:  3,
	ME:  29,
	BF:  7,
	Imm: 0x8001,
}

func main() {
	decoder := insts.NewDecoder()
	failures := 0

	for _, t := range insts.Templates() {
		word := t.Encode(sample)
		inst := decoder.Decode(word)

		for _, problem := range check(t, inst) {
			fmt.Printf("FAIL %-9s [%08x]: %s\n", t.Mnemonic, word, problem)
			failures++
		}
		if !ref.Supports(word) {
			fmt.Printf("FAIL %-9s [%08x]: reference model does not support it\n", t.Mnemonic, word)
			failures++
		}
	}

	fmt.Printf("Encoding Check Results:\n")
	fmt.Printf("=======================\n")
	fmt.Printf("Templates checked: %d\n", len(insts.Templates()))
	fmt.Printf("Failures: %d\n", failures)

	measureDecode(decoder)

	if failures > 0 {
		os.Exit(1)
	}
}

func check(t insts.Template, inst *insts.Instruction) []string {
	var problems []string
	expect := func(name string, got, want any) {
		if got != want {
			problems = append(problems, fmt.Sprintf("%s = %v, want %v", name, got, want))
		}
	}

	if inst.Op == insts.OpUnknown {
		return []string{"decoded as unknown"}
	}
	expect("format", inst.Format, t.Format)
	expect("primary", inst.Primary, t.Primary)
	expect("extended", inst.Extended, t.Extended)
	expect("OE", inst.OE, t.OE)
	expect("Rc", inst.Rc, t.Rc)

	switch t.Format {
	case insts.FormatD:
		expect("RT", inst.RT, sample.RT)
		expect("RA", inst.RA, sample.RA)
		expect("Imm", inst.Imm, sample.Imm)
	case insts.FormatX, insts.FormatXO, insts.FormatXL:
		expect("RT", inst.RT, sample.RT)
		expect("RA", inst.RA, sample.RA)
		expect("RB", inst.RB, sample.RB)
	case insts.FormatM:
		expect("RS", inst.RT, sample.RT)
		expect("RA", inst.RA, sample.RA)
		expect("SH", inst.SH, sample.SH)
		expect("MB", inst.MB, sample.MB)
		expect("ME", inst.ME, sample.ME)
	case insts.FormatMReg:
		expect("RS", inst.RT, sample.RT)
		expect("RA", inst.RA, sample.RA)
		expect("RB", inst.RB, sample.RB)
		expect("MB", inst.MB, sample.MB)
		expect("ME", inst.ME, sample.ME)
	case insts.FormatXCmp:
		expect("BF", inst.BF, sample.BF)
		expect("RA", inst.RA, sample.RA)
		expect("RB", inst.RB, sample.RB)
	case insts.FormatDCmp:
		expect("BF", inst.BF, sample.BF)
		expect("RA", inst.RA, sample.RA)
		expect("Imm", inst.Imm, sample.Imm)
	}

	return problems
}

// measureDecode reports decode throughput and allocations over every
// template word.
func measureDecode(decoder *insts.Decoder) {
	var words []uint32
	for _, t := range insts.Templates() {
		words = append(words, t.Encode(sample))
	}

	var inst insts.Instruction
	for range 1000 {
		for _, w := range words {
			decoder.DecodeInto(w, &inst)
		}
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000
	for range iterations {
		for _, w := range words {
			decoder.DecodeInto(w, &inst)
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(words)
	fmt.Printf("Decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", m2.Mallocs-m1.Mallocs)
}
