package tokenizer

import (
	"regexp"
	"strings"
)

// locationSeparatorRegex matches runs of whitespace and commas, e.g. "Pune, India".
var locationSeparatorRegex = regexp.MustCompile(`[\s,]+`)

// numberRegex matches integer and decimal literals: "3", "7.5", ".5".
var numberRegex = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)

// Words splits text on runs of whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// LocationWords splits a location string on runs of whitespace or commas.
func LocationWords(text string) []string {
	split := locationSeparatorRegex.Split(text, -1)

	words := make([]string, 0, len(split)) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" {
			words = append(words, s)
		}
	}
	return words
}

// SkillTokens splits a comma separated skills field into trimmed, non-empty tokens,
// keeping their original casing and order.
func SkillTokens(skills string) []string {
	if skills == "" {
		return []string{}
	}
	parts := strings.Split(skills, ",")

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Numbers returns the numeric literals found in text, left to right.
func Numbers(text string) []string {
	found := numberRegex.FindAllString(text, -1)
	if found == nil {
		return []string{}
	}
	return found
}

// HasWordPrefix reports whether any word of words starts with prefix.
func HasWordPrefix(words []string, prefix string) bool {
	for _, w := range words {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}
