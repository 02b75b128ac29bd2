// Command trialscope is the installable entry point; it behaves exactly like
// the module root binary.
package main

import (
	"os"

	"trialscope/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
