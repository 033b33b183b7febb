package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings are written
// on their own lines, numbered by depth ("1.", "1.1", ...) so the pattern
// outline recovers the hierarchy.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Parsed, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	title := strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown")
	var blocks []string
	var num headingNumbers

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := strings.TrimSpace(string(node.Text(src)))
			if heading != "" {
				blocks = append(blocks, num.next(node.Level)+" "+heading)
			}
		default:
			if t := extractText(n, src); t != "" {
				blocks = append(blocks, t)
			}
		}
	}

	if len(blocks) == 0 {
		return &doctree.Parsed{Title: title}, nil
	}
	return singlePage(title, blocks), nil
}

// extractText gets the text content of a goldmark AST node. Blocks without
// children (code blocks) carry their text as source lines; every other node
// is rebuilt from its inline children, one line per child block.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		t := extractText(c, src)
		if t == "" {
			continue
		}
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(t)
	}
	return strings.TrimSpace(buf.String())
}
