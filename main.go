// Package main provides the entry point for ppcverify.
// ppcverify checks a PowerPC emulator's fixed-point instructions against
// the host processor or a reference model.
//
// For the full CLI, use: go run ./cmd/ppcverify
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/ppcverify/harness"
)

func main() {
	fmt.Println("ppcverify - PowerPC emulator conformance tester")
	fmt.Println("")
	fmt.Println("Usage: ppcverify [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -c, --config     Path to JSON run configuration")
	fmt.Println("  -o, --oracle     auto, host or reference")
	fmt.Println("  -f, --families   Comma-separated families to run")
	fmt.Println("  -v, --verbose    Report passing cases too")
	fmt.Println("")
	fmt.Printf("Families: %s\n", strings.Join(harness.FamilyNames(), ", "))
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ppcverify' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ppcverify' instead.")
	}
}
