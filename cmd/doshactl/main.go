// doshactl analyzes lifestyle metrics, streams simulated sensor readings and
// manages the local analysis history and feedback log.
package main

import (
	"fmt"
	"os"

	"github.com/danielpatrickdp/dosha-lens/cmd/doshactl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
