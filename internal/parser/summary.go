package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxSentences caps how many sentences a summary keeps
	DefaultMaxSentences = 3
	// DefaultMaxSummaryLength caps the summary length in characters
	DefaultMaxSummaryLength = 500

	minSentenceLength = 10
)

var (
	headingMarker   = regexp.MustCompile(`(?m)^#+\s*`)
	boldMarker      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicMarker    = regexp.MustCompile(`\*([^*]+)\*`)
	codeMarker      = regexp.MustCompile("`([^`]+)`")
	sentenceBreaker = regexp.MustCompile(`[.!?]+`)
)

// Summarizer builds extractive summaries from the leading sentences of a text
type Summarizer struct {
	maxSentences int
	maxLength    int
}

// NewSummarizer creates a summarizer. Non-positive limits fall back to defaults.
func NewSummarizer(maxSentences, maxLength int) *Summarizer {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxSummaryLength
	}
	return &Summarizer{maxSentences: maxSentences, maxLength: maxLength}
}

// Summarize returns up to maxSentences meaningful sentences joined by ". ".
// It returns "" when the text has nothing longer than a short fragment.
func (s *Summarizer) Summarize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	clean := headingMarker.ReplaceAllString(text, "")
	clean = boldMarker.ReplaceAllString(clean, "$1")
	clean = italicMarker.ReplaceAllString(clean, "$1")
	clean = codeMarker.ReplaceAllString(clean, "$1")

	var sentences []string
	for _, fragment := range sentenceBreaker.Split(clean, -1) {
		fragment = strings.TrimSpace(fragment)
		if utf8.RuneCountInString(fragment) > minSentenceLength {
			sentences = append(sentences, fragment)
			if len(sentences) == s.maxSentences {
				break
			}
		}
	}
	if len(sentences) == 0 {
		return ""
	}

	summary := strings.Join(sentences, ". ")
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	return truncateRunes(summary, s.maxLength)
}

// truncateRunes cuts s to at most n characters without splitting a rune
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
