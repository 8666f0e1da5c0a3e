// main is the entry point for the trafficlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/trafficlens/trafficlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
