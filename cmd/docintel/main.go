// Command docintel runs the document intelligence pipeline from the command
// line: heading outlines, persona relevance analysis and extractive summaries.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
