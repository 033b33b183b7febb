// Package outline detects a document's title and heading hierarchy.
//
// Two heuristics are available and deliberately kept apart: PatternStrategy
// classifies lines of page-marked plain text with regular expressions, and
// FontStrategy classifies lines by their font size relative to the body text.
// Callers pick whichever matches the representation they have.
package outline

import (
	"fmt"

	"github.com/dgallion1/docintel/internal/doctree"
)

// Source carries every representation a strategy may need. Text is the raw
// document text with inline page markers; Spans are font-annotated runs and
// may be empty when the decoder does not expose them.
type Source struct {
	Text  string
	Spans []doctree.Span
}

// Strategy builds an outline from a source. Implementations never fail: empty
// or degenerate input yields an empty outline titled doctree.UntitledDocument.
type Strategy interface {
	Name() string
	Extract(src Source) doctree.Outline
}

// ForName returns the strategy registered under name.
func ForName(name string) (Strategy, error) {
	switch name {
	case "", "pattern":
		return PatternStrategy{}, nil
	case "font":
		return FontStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown outline strategy: %s", name)
	}
}
