package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docintel/internal/relevance"
)

var (
	personaFile string
	jobFile     string
	personaTop  int
	personaOut  string
)

var personaCmd = &cobra.Command{
	Use:   "persona --persona file --job file <files|dirs>...",
	Short: "Rank document sections for a persona and their job to be done",
	Long: `Scores every section of the input documents against the persona and job
descriptions (YAML or JSON) and writes the top sections with refined text.
A missing profile falls back to an empty one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		persona, err := optionalProfile(personaFile, "persona")
		if err != nil {
			return err
		}
		job, err := optionalProfile(jobFile, "job")
		if err != nil {
			return err
		}

		files, err := collectFiles(args)
		if err != nil {
			return err
		}
		w, err := newWorker()
		if err != nil {
			return err
		}
		docs, err := buildAll(cmd.Context(), w, files, "Analyzing")
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no document had enough text to analyze")
		}

		ranked := make([]relevance.Document, 0, len(docs))
		for _, d := range docs {
			ranked = append(ranked, relevance.FromDocument(d))
		}
		analysis := relevance.Analyze(ranked,
			relevance.PersonaProfile(persona),
			relevance.JobProfile(job),
			personaTop, time.Now().UTC())
		return writeJSON(personaOut, analysis)
	},
}

func optionalProfile(path, kind string) (map[string]any, error) {
	if path == "" {
		warnf("no %s file given, using an empty profile", kind)
		return map[string]any{}, nil
	}
	return loadProfile(path)
}

func init() {
	personaCmd.Flags().StringVar(&personaFile, "persona", "", "persona description (.yaml, .yml or .json)")
	personaCmd.Flags().StringVar(&jobFile, "job", "", "job-to-be-done description (.yaml, .yml or .json)")
	personaCmd.Flags().IntVar(&personaTop, "top", relevance.DefaultTopN, "number of sections to report")
	personaCmd.Flags().StringVarP(&personaOut, "out", "o", "", "output file (default stdout)")
}
