package outline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dgallion1/docintel/internal/doctree"
)

type levelRule struct {
	re    *regexp.Regexp
	level int
}

// headingRules are evaluated in order; the first match assigns the level.
// The generic short-line rule is handled separately after these.
var headingRules = []levelRule{
	{regexp.MustCompile(`^[A-Z][A-Z\s]{3,}$`), 1},
	{regexp.MustCompile(`^(CHAPTER|SECTION|PART)\s+\d+`), 1},
	{regexp.MustCompile(`^\d+\.\s+[A-Z]`), 1},
	{regexp.MustCompile(`^\d+\.\d+\.\d+\s+[A-Z]`), 3},
	{regexp.MustCompile(`^\d+\.\d+\s+[A-Z]`), 2},
	{regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)*:?$`), 2},
	{regexp.MustCompile(`^[a-z]\)\s+[A-Z]`), 3},
	{regexp.MustCompile(`^\([a-z]\)\s+[A-Z]`), 3},
}

const shortLineLimit = 100

var pageMarkerLine = regexp.MustCompile(`^--- Page (\d+) ---$`)

// PatternStrategy classifies lines of page-marked text by shape.
type PatternStrategy struct{}

func (PatternStrategy) Name() string { return "pattern" }

// Extract walks the lines of src.Text, tracking the current page from inline
// markers (page 1 until the first marker), and emits every line that a
// heading rule accepts and the validation filter does not reject.
func (PatternStrategy) Extract(src Source) doctree.Outline {
	out := doctree.Outline{Title: DetectTitle(src.Text)}

	seen := make(map[string]bool)
	page := 1
	pos := 0
	for _, raw := range strings.SplitAfter(src.Text, "\n") {
		lineStart := pos
		pos += len(raw)

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if n, ok := pageNumber(line); ok {
			page = n
			continue
		}

		level := classifyLine(line)
		if level == 0 {
			continue
		}
		text := normalizeHeading(line)
		if !validHeading(text, level) || seen[text] {
			continue
		}
		seen[text] = true

		start := lineStart + strings.Index(raw, line)
		out.Sections = append(out.Sections, doctree.Section{
			Text:  text,
			Level: level,
			Page:  page,
			Start: start,
			End:   start + len(line),
		})
	}
	return out
}

func classifyLine(line string) int {
	for _, r := range headingRules {
		if r.re.MatchString(line) {
			return r.level
		}
	}
	if len([]rune(line)) < shortLineLimit && !strings.HasSuffix(line, ".") && hasUpper(line) {
		return 3
	}
	return 0
}

func pageNumber(line string) (int, bool) {
	m := pageMarkerLine.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func normalizeHeading(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
