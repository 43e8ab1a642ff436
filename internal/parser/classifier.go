package parser

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the formats that can be parsed as text
var DefaultExtensions = []string{".txt", ".md", ".markdown"}

// Classifier decides whether a file name has a textually parseable extension.
// It never touches the file system.
type Classifier struct {
	extensions map[string]struct{}
}

// NewClassifier creates a classifier for the given extensions.
// Extensions are matched case-insensitively; a missing leading dot is added.
func NewClassifier(extensions []string) *Classifier {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return &Classifier{extensions: set}
}

// IsSupported reports whether the file name's extension is parseable
func (c *Classifier) IsSupported(fileName string) bool {
	_, ok := c.extensions[strings.ToLower(Extension(fileName))]
	return ok
}

// Extensions returns the configured extensions in sorted order
func (c *Classifier) Extensions() []string {
	return slices.Sorted(maps.Keys(c.extensions))
}

// Extension returns the final suffix of the base name, keeping its case.
// Dot files such as ".md" have no extension.
func Extension(fileName string) string {
	_, ext := splitName(fileName)
	return ext
}

// splitName splits the base name into stem and extension
func splitName(fileName string) (stem, ext string) {
	if fileName == "" {
		return "", ""
	}
	base := filepath.Base(fileName)
	if base == "." || base == string(filepath.Separator) {
		return "", ""
	}
	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return base, ""
	}
	return base[:i], base[i:]
}
