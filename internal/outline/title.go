package outline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/docintel/internal/doctree"
)

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][A-Z\s]{5,}$`),
	regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`),
	regexp.MustCompile(`^\d+\.\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`),
}

// leadWords disqualify a title candidate when they open it.
var leadWords = map[string]bool{
	"the": true, "this": true, "that": true, "these": true, "those": true,
	"a": true, "an": true,
}

const titleWindow = 10

// DetectTitle picks the document title from the first page's leading lines.
func DetectTitle(text string) string {
	candidates := firstPageLines(text, titleWindow)

	for _, line := range candidates {
		n := len([]rune(line))
		if n <= 5 || n >= 100 {
			continue
		}
		for _, re := range titlePatterns {
			if re.MatchString(line) {
				return line
			}
		}
		if looksLikeTitle(line) {
			return line
		}
	}

	for _, line := range candidates {
		if n := len([]rune(line)); n >= 10 && n < 100 {
			return line
		}
	}
	return doctree.UntitledDocument
}

func looksLikeTitle(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 10 {
		return false
	}
	if leadWords[strings.ToLower(words[0])] || leadWords[strings.ToLower(words[1])] {
		return false
	}
	first := []rune(line)[0]
	return unicode.IsUpper(first) && !strings.HasSuffix(line, ".")
}

// firstPageLines returns up to n trimmed, non-empty lines that precede the
// second page marker.
func firstPageLines(text string, n int) []string {
	var out []string
	markers := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if _, ok := pageNumber(line); ok {
			markers++
			if markers > 1 || len(out) > 0 {
				break
			}
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}
