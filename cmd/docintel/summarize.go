package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docintel/internal/config"
	"github.com/dgallion1/docintel/internal/parser"
	"github.com/dgallion1/docintel/internal/summarizer"
)

var summarySentences int

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Print an extractive summary of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		parsed, err := parser.Decode(f, filepath.Base(args[0]), config.Load().ParserOptions())
		if err != nil {
			return err
		}
		summary := summarizer.Summarize(parsed.RawText(), parsed.Title, summarySentences)
		if summary == "" {
			return fmt.Errorf("%s: no sentences long enough to summarize", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().IntVarP(&summarySentences, "sentences", "n", summarizer.DefaultMaxSentences, "maximum sentences")
}
