package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
)

// TextParser handles plain text files. Form feeds split pages, as in
// pdftotext output; runs of blank lines collapse to one.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Parsed, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var raw strings.Builder
	blank := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			blank = raw.Len() > 0
			continue
		}
		if raw.Len() > 0 {
			raw.WriteString("\n")
			if blank {
				raw.WriteString("\n")
			}
		}
		blank = false
		raw.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out := &doctree.Parsed{Title: strings.TrimSuffix(filename, ".txt")}
	if raw.Len() == 0 {
		return out, nil
	}
	out.Pages = splitPages(raw.String())
	return out, nil
}
