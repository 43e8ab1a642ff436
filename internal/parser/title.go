package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// UntitledDocument is used when a file name yields no title
const UntitledDocument = "Untitled Document"

var (
	separatorRun  = regexp.MustCompile(`[_-]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// ExtractTitle derives a human title from a file name.
// "lecture_notes.md" becomes "Lecture Notes".
func ExtractTitle(fileName string) string {
	stem, _ := splitName(fileName)

	title := separatorRun.ReplaceAllString(stem, " ")
	title = titleCase(title)
	title = strings.TrimSpace(whitespaceRun.ReplaceAllString(title, " "))

	if title == "" {
		return UntitledDocument
	}
	return title
}

// titleCase upper-cases every cased letter that follows an uncased character
// and lower-cases the rest, so "o'neil 2nd" becomes "O'Neil 2Nd".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && prevCased:
			b.WriteRune(unicode.ToLower(r))
		case cased:
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}
