// Command krepsys is the terminal client for a Krepsys backend
package main

import (
	"os"

	"github.com/krepsys/tui/internal/output"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		output.NewPrinter(output.UseColors()).Error("%v", err)
		os.Exit(1)
	}
}
