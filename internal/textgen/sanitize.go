package textgen

import (
	"regexp"
	"strings"
)

// maxSentences and maxChars bound every advisory text, model-generated
// or fallback, to the same shape.
const (
	maxSentences = 3
	maxChars     = 600
)

var (
	markdownChars = regexp.MustCompile("[`*_>#]")
	whitespace    = regexp.MustCompile(`\s+`)
)

// Sanitize normalizes advisory text for output: markdown control
// characters are stripped, whitespace collapsed, and the result cut to
// at most 3 sentences and 600 characters.
func Sanitize(value string) string {
	if value == "" {
		return ""
	}

	text := markdownChars.ReplaceAllString(value, "")
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	sentences := splitSentences(text)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	text = strings.Join(sentences, " ")

	if len(text) > maxChars {
		text = strings.TrimSpace(text[:maxChars])
	}
	return text
}

// splitSentences cuts after '.', '!' or '?' followed by a space. The
// terminator stays with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 2
		}
	}
	if start < len(text) {
		if rest := strings.TrimSpace(text[start:]); rest != "" {
			sentences = append(sentences, rest)
		}
	}
	return sentences
}
