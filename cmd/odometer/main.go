// Command odometer is a terminal host for the odometer library. It formats
// values into slot rows, plays transitions in the terminal, renders them to
// animated GIFs, and scaffolds host projects.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/odometer/cmd/odometer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
