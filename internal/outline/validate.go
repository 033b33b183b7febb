package outline

import (
	"regexp"
	"strings"
)

// artifactPatterns match lower-cased heading candidates that are page
// furniture rather than headings.
var artifactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\s*$`),
	regexp.MustCompile(`^page\s+\d+`),
	regexp.MustCompile(`^\d+\.\s*$`),
	regexp.MustCompile(`^figure\s+\d+`),
	regexp.MustCompile(`^table\s+\d+`),
	regexp.MustCompile(`^appendix\s+[a-z]$`),
}

const maxHeadingChars = 150

// maxWords is the word budget per heading level; deeper levels may be longer.
var maxWords = map[int]int{1: 15, 2: 20, 3: 25}

func validHeading(text string, level int) bool {
	if text == "" || len([]rune(text)) > maxHeadingChars {
		return false
	}
	lower := strings.ToLower(text)
	for _, re := range artifactPatterns {
		if re.MatchString(lower) {
			return false
		}
	}
	if limit, ok := maxWords[level]; ok && len(strings.Fields(text)) > limit {
		return false
	}
	return true
}
