package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/dgallion1/docintel/internal/parser"
	"github.com/dgallion1/docintel/internal/pipeline"
)

// collectFiles expands directories into the supported documents beneath them.
// Explicit file arguments are kept even when their extension is unknown so
// that the decoder can report the problem.
func collectFiles(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && parser.IsSupportedExtension(p) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no supported documents found")
	}
	return out, nil
}

// eachFile runs fn for every file with bounded parallelism. A progress bar
// is drawn on stderr unless verbose logging is on. The first error returned
// by fn cancels the remaining files.
func eachFile(ctx context.Context, files []string, desc string, fn func(ctx context.Context, i int, path string) error) error {
	var bar *progressbar.ProgressBar
	if !verbose {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription(desc),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := fn(gctx, i, path); err != nil {
				return err
			}
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}
	return nil
}

// buildAll builds every file, preserving input order. Files without enough
// text to form a segment are skipped with a warning.
func buildAll(ctx context.Context, w *pipeline.Worker, files []string, desc string) ([]*doctree.Document, error) {
	docs := make([]*doctree.Document, len(files))
	err := eachFile(ctx, files, desc, func(ctx context.Context, i int, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := w.Build(ctx, filepath.Base(path), "", data)
		if errors.Is(err, pipeline.ErrNoContent) {
			warnf("skipping %s: %v", path, err)
			return nil
		}
		if err != nil {
			return err
		}
		docs[i] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out, nil
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// loadProfile reads a persona or job description from YAML or JSON.
func loadProfile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	default:
		err = json.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
