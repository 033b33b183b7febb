package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docintel/internal/config"
	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/dgallion1/docintel/internal/outline"
	"github.com/dgallion1/docintel/internal/parser"
)

var outlineOut string

var outlineCmd = &cobra.Command{
	Use:   "outline <files|dirs>...",
	Short: "Extract the title and heading outline of each document",
	Long: `Writes {"title": ..., "outline": [{"level": "H1", "text": ..., "page": 1}]}
for every input. With --out each document gets <name>.json in that directory;
otherwise the outlines are printed to stdout. A document that cannot be read
still gets an entry, titled after its file name with an empty outline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := collectFiles(args)
		if err != nil {
			return err
		}
		cfg := config.Load()
		strat, err := newStrategy(cfg)
		if err != nil {
			return err
		}

		results := make([]doctree.OutlineFile, len(files))
		err = eachFile(cmd.Context(), files, "Outlining", func(_ context.Context, i int, path string) error {
			results[i] = outlineOrEmpty(path, strat, cfg.ParserOptions())
			return nil
		})
		if err != nil {
			return err
		}

		for i, res := range results {
			path := ""
			if outlineOut != "" {
				path = filepath.Join(outlineOut, fileStem(files[i])+".json")
			}
			if err := writeJSON(path, res); err != nil {
				return err
			}
		}
		return nil
	},
}

// extractOutline decodes path and runs the outline strategy over it.
func extractOutline(path string, strat outline.Strategy, opts parser.Options) (doctree.OutlineFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return doctree.OutlineFile{}, err
	}
	defer f.Close()

	parsed, err := parser.Decode(f, filepath.Base(path), opts)
	if err != nil {
		return doctree.OutlineFile{}, err
	}
	return strat.Extract(outline.Source{Text: parsed.RawText(), Spans: parsed.Spans}).File(), nil
}

// outlineOrEmpty is extractOutline with failures reported as a warning and
// an empty outline titled after the file.
func outlineOrEmpty(path string, strat outline.Strategy, opts parser.Options) doctree.OutlineFile {
	res, err := extractOutline(path, strat, opts)
	if err != nil {
		warnf("%s: %v", path, err)
		return doctree.OutlineFile{Title: fileStem(path), Outline: []doctree.Heading{}}
	}
	return res
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func init() {
	outlineCmd.Flags().StringVarP(&outlineOut, "out", "o", "", "output directory")
}
