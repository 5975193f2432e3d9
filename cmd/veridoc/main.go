// Command veridoc is a document question-answering tool with
// verifiable citations.
package main

import (
	"fmt"
	"os"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
