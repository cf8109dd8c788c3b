// Command richprompt flattens a directory of text files into an LLM context
// document.
package main

import (
	"fmt"
	"os"

	"github.com/richprompt/richprompt/internal/cli"
)

func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, "richprompt: %v\n", executionError)
		os.Exit(1)
	}
}
