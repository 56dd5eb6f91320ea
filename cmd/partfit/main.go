// Command partfit is the parts compatibility CLI: resolve single vehicles,
// batch-generate reports, validate them, and export to the document store.
package main

import (
	"fmt"
	"os"

	"github.com/partfit/compat-engine/cmd/partfit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
