package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first, then falls
// back to pdftotext if enabled. Only the Go decoder yields font spans.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Parsed, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docintel-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	parsed, err := extractPDF(tmpPath)
	if err != nil && p.FallbackPdftotext {
		var text string
		text, err = extractPdftotext(tmpPath)
		if err == nil {
			parsed = &doctree.Parsed{Pages: splitPages(text)}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	parsed.Title = baseTitle(filename)
	return parsed, nil
}

func extractPDF(path string) (*doctree.Parsed, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := &doctree.Parsed{}
	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}
	for i := 1; i <= numPages; i++ {
		pg := doctree.Page{Number: i}
		page := reader.Page(i)
		if !page.V.IsNull() {
			if text, err := page.GetPlainText(nil); err == nil {
				pg.Text = text
			}
			if rows, err := page.GetTextByRow(); err == nil {
				out.Spans = append(out.Spans, rowSpans(i-1, rows)...)
			}
		}
		out.Pages = append(out.Pages, pg)
	}
	return out, nil
}

// rowSpans turns the positioned glyphs of one page into spans. Consecutive
// glyphs on a row that share font and size form one span; a horizontal gap
// wider than a fraction of the font size becomes a space.
func rowSpans(page int, rows pdflib.Rows) []doctree.Span {
	var spans []doctree.Span
	for lineNo, row := range rows {
		var cur *doctree.Span
		var font string
		var lastEnd float64
		for _, g := range row.Content {
			if g.S == "" {
				continue
			}
			if cur == nil || g.Font != font || math.Abs(g.FontSize-cur.Size) > 0.05 {
				if cur != nil {
					spans = append(spans, *cur)
				}
				font = g.Font
				cur = &doctree.Span{
					Page: page,
					Line: lineNo,
					X:    g.X,
					Size: g.FontSize,
					Bold: isBoldFont(g.Font),
				}
			} else if g.X-lastEnd > g.FontSize*0.2 && !strings.HasSuffix(cur.Text, " ") {
				cur.Text += " "
			}
			cur.Text += g.S
			lastEnd = g.X + g.W
		}
		if cur != nil {
			spans = append(spans, *cur)
		}
	}
	return spans
}

func isBoldFont(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "bold") || strings.Contains(n, "black") || strings.Contains(n, "heavy")
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// splitPages splits form-feed separated text into numbered pages. A trailing
// empty page left by a final form feed is dropped.
func splitPages(text string) []doctree.Page {
	parts := strings.Split(text, "\f")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make([]doctree.Page, len(parts))
	for i, p := range parts {
		pages[i] = doctree.Page{Number: i + 1, Text: p}
	}
	return pages
}
