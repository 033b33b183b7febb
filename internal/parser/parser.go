// Package parser decodes uploaded files into pages of plain text and, where the
// format exposes them, font-annotated text spans.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
)

// Parser converts raw document bytes into decoded pages.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Parsed, error)
}

// DecodeError reports that a file could not be turned into pages. It is
// fatal for the whole document.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Options tune decoding.
type Options struct {
	// FallbackPdftotext shells out to pdftotext when the Go PDF decoder fails.
	FallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Decode picks a parser for filename and runs it. Every failure, including an
// unsupported extension, is returned as a *DecodeError.
func Decode(r io.Reader, filename string, opts Options) (*doctree.Parsed, error) {
	p, err := ForFile(filename, opts)
	if err != nil {
		return nil, &DecodeError{Filename: filename, Err: err}
	}
	parsed, err := p.Parse(r, filename)
	if err != nil {
		return nil, &DecodeError{Filename: filename, Err: err}
	}
	if parsed.Title == "" {
		parsed.Title = baseTitle(filename)
	}
	return parsed, nil
}

// baseTitle strips directory and extension from a filename.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// singlePage wraps block-structured text as a one-page document.
func singlePage(title string, blocks []string) *doctree.Parsed {
	return &doctree.Parsed{
		Title: title,
		Pages: []doctree.Page{{Number: 1, Text: strings.Join(blocks, "\n\n")}},
	}
}
